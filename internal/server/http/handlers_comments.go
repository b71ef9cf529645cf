package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/model"
)

type createCommentRequest struct {
	Content string `json:"content"`
	Event   string `json:"event"`
}

type commentView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentView(c model.Comment) commentView {
	return commentView{
		ID:        c.ID.String(),
		Content:   c.Content,
		Author:    c.AuthorID.String(),
		Event:     c.EventID.String(),
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "no token provided")
		return
	}
	authorID, err := claims.UserID()
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" || req.Event == "" {
		writeMessage(w, http.StatusBadRequest, "content and event id are required")
		return
	}
	eventID, err := uuid.FromString(req.Event)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid event id")
		return
	}

	c, err := s.comments.Create(r.Context(), authorID, eventID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentView(*c))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.FromString(r.PathValue("eventID"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid event id")
		return
	}
	comments, err := s.comments.ListForEvent(r.Context(), eventID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

// handleDeleteComment delegates the ownership decision to the service:
// absent comment is 404, non-owner non-admin is 403, otherwise 204.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "no token provided")
		return
	}
	id, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := s.comments.Delete(r.Context(), claims, id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
