package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps the error taxonomy to transport statuses in one place.
// Credential failures collapse to a single generic message; unexpected
// errors are logged and surfaced as a generic server failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, http.StatusBadRequest, validationDetail(err))
	case errors.Is(err, errs.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, errs.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, errs.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "username already exists")
	case errors.Is(err, errs.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, "too many attempts, try again later")
	default:
		s.log.Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// validationDetail strips the sentinel prefix, leaving the caller-fixable part.
func validationDetail(err error) string {
	msg := err.Error()
	if rest, found := strings.CutPrefix(msg, errs.ErrValidation.Error()+": "); found {
		return rest
	}
	return msg
}
