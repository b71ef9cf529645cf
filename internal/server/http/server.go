// Package httpserver exposes the eventboard HTTP API.
package httpserver

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/service"
	"github.com/eventboard/eventboard/internal/token"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	users    service.UserService
	events   service.EventService
	comments service.CommentService
	codec    *token.Codec
	log      *zap.Logger

	secureCookies bool
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, users service.UserService, events service.EventService,
	comments service.CommentService, codec *token.Codec, log *zap.Logger, secureCookies bool) *Server {
	return &Server{
		auth:          auth,
		users:         users,
		events:        events,
		comments:      comments,
		codec:         codec,
		log:           log,
		secureCookies: secureCookies,
	}
}

// Routes builds the route table. Protected routes declare their policy
// through requireAuth rather than re-implementing checks inline.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	anyAuth := s.requireAuth()
	adminOnly := s.requireAuth(model.RoleAdmin)

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogleLogin)

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.Handle("POST /api/users/admin", anyAuth(http.HandlerFunc(s.handleRegisterAdmin)))
	mux.Handle("GET /api/users", adminOnly(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("DELETE /api/users/{id}", adminOnly(http.HandlerFunc(s.handleDeleteUser)))

	mux.Handle("POST /api/events", anyAuth(http.HandlerFunc(s.handleCreateEvent)))
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.Handle("DELETE /api/events/{id}", anyAuth(http.HandlerFunc(s.handleDeleteEvent)))

	mux.Handle("POST /api/comments", anyAuth(http.HandlerFunc(s.handleCreateComment)))
	mux.HandleFunc("GET /api/comments/event/{eventID}", s.handleListComments)
	mux.Handle("DELETE /api/comments/{id}", anyAuth(http.HandlerFunc(s.handleDeleteComment)))

	var h http.Handler = mux
	h = Logging(s.log)(h)
	h = Recover(s.log)(h)
	return h
}

// remoteIP strips the port from the request's remote address.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
