package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/model"
)

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC 3339
}

type eventView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Creator     string    `json:"creator"`
}

func toEventView(e model.Event) eventView {
	return eventView{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Creator:     e.CreatorID.String(),
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "no token provided")
		return
	}
	creatorID, err := claims.UserID()
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid or missing date")
		return
	}

	e, err := s.events.Create(r.Context(), creatorID, req.Title, req.Description, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(*e))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.EventFilter{SortBy: q.Get("sortBy")}
	if v := q.Get("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("creator"); v != "" {
		id, err := uuid.FromString(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid creator id")
			return
		}
		f.CreatorID = &id
	}

	events, err := s.events.List(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toEventView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if err := s.events.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
