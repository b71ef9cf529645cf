package httpserver

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard/internal/authz"
	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
)

// tokenCookie is the cookie carrier for bearer tokens.
const tokenCookie = "token"

// extractors lists the token carriers in trust order: cookie first,
// then Authorization header. First match wins.
var extractors = []func(*http.Request) string{
	tokenFromCookie,
	tokenFromHeader,
}

func tokenFromCookie(r *http.Request) string {
	c, err := r.Cookie(tokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func tokenFromHeader(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}

func extractToken(r *http.Request) string {
	for _, extract := range extractors {
		if t := extract(r); t != "" {
			return t
		}
	}
	return ""
}

// requireAuth guards a route: it extracts a bearer token, verifies it,
// optionally checks the role against an allowed set (empty set means any
// authenticated identity), and attaches claims to the request context.
// The rejection message never distinguishes expired from tampered tokens.
func (s *Server) requireAuth(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractToken(r)
			if tok == "" {
				writeMessage(w, http.StatusUnauthorized, "no token provided")
				return
			}
			claims, err := s.codec.Verify(tok)
			if err != nil {
				s.log.Debug("token rejected", zap.Error(err))
				writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if err := authz.RequireRole(claims, roles...); err != nil {
				if errors.Is(err, errs.ErrForbidden) {
					writeMessage(w, http.StatusForbidden, "insufficient role")
					return
				}
				writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Logging returns middleware for structured request logging. No payloads
// are logged, only metadata.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover returns middleware that recovers from handler panics.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeMessage(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
