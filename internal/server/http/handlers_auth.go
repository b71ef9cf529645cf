package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventboard/eventboard/internal/model"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type sessionResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// handleLogin authenticates with username/password. Success carries the
// token both as an http-only cookie and in the body, so browser and
// non-browser clients are served by the same endpoint.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := s.auth.Login(r.Context(), req.Username, req.Password, remoteIP(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setTokenCookie(w, sess)
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "logged in successfully",
		Token:   sess.Token,
		User:    sess.User.Public(),
	})
}

// handleGoogleLogin authenticates with a Google-issued ID token. Any
// verification problem yields the same generic failure.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := s.auth.LoginWithIDToken(r.Context(), req.IDToken)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setTokenCookie(w, sess)
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "logged in successfully",
		Token:   sess.Token,
		User:    sess.User.Public(),
	})
}

// handleRegister creates a user-role account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "user registered successfully",
		Token:   sess.Token,
		User:    sess.User.Public(),
	})
}

// handleRegisterAdmin creates an admin-role account. The service rejects
// non-admin callers before validating the new account's fields.
func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "no token provided")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := s.auth.RegisterAdmin(r.Context(), claims, req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "admin registered successfully",
		Token:   sess.Token,
		User:    sess.User.Public(),
	})
}

// setTokenCookie sets the cookie carrier. Lifetime tracks token expiry.
func (s *Server) setTokenCookie(w http.ResponseWriter, sess model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.secureCookies,
	})
}
