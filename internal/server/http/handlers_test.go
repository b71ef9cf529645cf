package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgcrypto "github.com/eventboard/eventboard/internal/crypto"
	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/identity"
	"github.com/eventboard/eventboard/internal/limiter"
	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/service"
	"github.com/eventboard/eventboard/internal/token"
)

// memStore is an in-memory backing for all three repositories, enough
// to drive the full HTTP stack through real services.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	events   map[uuid.UUID]*model.Event
	comments map[uuid.UUID]*model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*model.User{},
		events:   map[uuid.UUID]*model.Event{},
		comments: map[uuid.UUID]*model.Comment{},
	}
}

func (m *memStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	m.users[u.Username] = &cpy
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *u
	return &cpy, nil
}

func (m *memStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, u := range m.users {
		if u.ID == id {
			delete(m.users, name)
			return nil
		}
	}
	return errs.ErrNotFound
}

type memEvents struct{ s *memStore }

func (m memEvents) Create(_ context.Context, e *model.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cpy := *e
	m.s.events[e.ID] = &cpy
	return nil
}

func (m memEvents) GetByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *e
	return &cpy, nil
}

func (m memEvents) List(_ context.Context, _ model.EventFilter) ([]model.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Event
	for _, e := range m.s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (m memEvents) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.s.events, id)
	return nil
}

type memComments struct{ s *memStore }

func (m memComments) Create(_ context.Context, c *model.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cpy := *c
	m.s.comments[c.ID] = &cpy
	return nil
}

func (m memComments) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.comments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	return &cpy, nil
}

func (m memComments) ListByEvent(_ context.Context, eventID uuid.UUID) ([]model.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Comment
	for _, c := range m.s.comments {
		if c.EventID == eventID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m memComments) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.comments[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

type stubVerifier struct {
	ident *identity.Identity
	err   error
}

func (v stubVerifier) Verify(context.Context, string) (*identity.Identity, error) {
	return v.ident, v.err
}

type testEnv struct {
	srv   *httptest.Server
	codec *token.Codec
	store *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithVerifier(t, stubVerifier{err: errors.New("not configured")})
}

func newTestEnvWithVerifier(t *testing.T, v identity.Verifier) *testEnv {
	t.Helper()
	store := newMemStore()
	codec := token.New([]byte("test-key"), time.Hour)

	authSvc := service.NewAuthService(store, codec, v, limiter.Noop{})
	userSvc := service.NewUserService(store)
	eventSvc := service.NewEventService(memEvents{store})
	commentSvc := service.NewCommentService(memComments{store}, memEvents{store})

	api := New(authSvc, userSvc, eventSvc, commentSvc, codec, zap.NewNop(), false)
	srv := httptest.NewServer(api.Routes())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, codec: codec, store: store}
}

// seedAdmin inserts an administrator directly into the store, the way an
// operator-provisioned account would exist before any request.
func (e *testEnv) seedAdmin(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := pkgcrypto.HashPassword(password)
	require.NoError(t, err)
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: username, PwdHash: hash, Role: model.RoleAdmin}
	require.NoError(t, e.store.Create(context.Background(), u))
	return u
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) register(t *testing.T, username, password string) sessionResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/users", "", credentialsRequest{Username: username, Password: password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[sessionResponse](t, resp)
}

func TestLogin_DualCarrierSuccess(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.register(t, "alice", "secret1")

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[sessionResponse](t, resp)
	require.NotEmpty(t, body.Token)
	require.Equal(t, "alice", body.User.Username)
	require.Equal(t, model.RoleUser, body.User.Role)

	claims, err := env.codec.Verify(body.Token)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, claims.Role)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == tokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the cookie carrier")
	require.Equal(t, body.Token, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Greater(t, cookie.MaxAge, 0)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.register(t, "alice", "secret1")

	wrongPwd := env.do(t, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "alice", Password: "nope"})
	noUser := env.do(t, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "ghost", Password: "nope"})

	require.Equal(t, http.StatusUnauthorized, wrongPwd.StatusCode)
	require.Equal(t, http.StatusUnauthorized, noUser.StatusCode)

	a := decodeBody[map[string]string](t, wrongPwd)
	b := decodeBody[map[string]string](t, noUser)
	require.Equal(t, a["message"], b["message"], "unknown handle must not be distinguishable")
}

func TestRegister_ValidationAndConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/users", "", credentialsRequest{Username: "alice", Password: "short"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.register(t, "alice", "secret1")
	dup := env.do(t, http.MethodPost, "/api/users", "", credentialsRequest{Username: "alice", Password: "secret2"})
	require.Equal(t, http.StatusConflict, dup.StatusCode)
}

func TestGuard_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// no token at all
	resp := env.do(t, http.MethodPost, "/api/events", "", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// garbage token
	resp = env.do(t, http.MethodPost, "/api/events", "garbage", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// expired token signed with the right key
	expired, _, err := token.New([]byte("test-key"), -time.Minute).Issue(uuid.Must(uuid.NewV4()), model.RoleUser)
	require.NoError(t, err)
	resp = env.do(t, http.MethodPost, "/api/events", expired, map[string]string{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// expired and tampered rejections carry the same message
	garbageMsg := decodeBody[map[string]string](t, env.do(t, http.MethodPost, "/api/events", "garbage", map[string]string{}))
	expiredMsg := decodeBody[map[string]string](t, env.do(t, http.MethodPost, "/api/events", expired, map[string]string{}))
	require.Equal(t, garbageMsg["message"], expiredMsg["message"])
}

func TestGuard_CookieCarrierWins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret1")

	ev := env.createEvent(t, alice.Token)

	// cookie carries alice, header carries bob: the comment is alice's
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(createCommentRequest{Content: "hi", Event: ev.ID}))
	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/comments", &buf)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: alice.Token})
	req.Header.Set("Authorization", "Bearer "+bob.Token)

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	c := decodeBody[commentView](t, resp)
	require.Equal(t, alice.User.ID, c.Author)
}

func TestAdminRoutes_RoleGuard(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")
	env.seedAdmin(t, "root", "changeme1")

	resp := env.do(t, http.MethodGet, "/api/users", alice.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "root", Password: "changeme1"})
	require.Equal(t, http.StatusOK, login.StatusCode)
	adminSess := decodeBody[sessionResponse](t, login)
	require.Equal(t, model.RoleAdmin, adminSess.User.Role)

	resp = env.do(t, http.MethodGet, "/api/users", adminSess.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeBody[[]model.PublicUser](t, resp)
	require.Len(t, users, 2)
}

func TestRegisterAdmin_RequiresAdminCaller(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")

	resp := env.do(t, http.MethodPost, "/api/users/admin", alice.Token,
		credentialsRequest{Username: "root2", Password: "secret1"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.seedAdmin(t, "root", "changeme1")
	login := env.do(t, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: "root", Password: "changeme1"})
	adminSess := decodeBody[sessionResponse](t, login)

	resp = env.do(t, http.MethodPost, "/api/users/admin", adminSess.Token,
		credentialsRequest{Username: "root2", Password: "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[sessionResponse](t, resp)
	require.Equal(t, model.RoleAdmin, created.User.Role)
}

func TestGoogleLogin_EndToEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithVerifier(t, stubVerifier{
		ident: &identity.Identity{Handle: "alice@example.com", EmailVerified: true},
	})

	resp := env.do(t, http.MethodPost, "/api/auth/google", "", googleLoginRequest{IDToken: "provider-token"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody[sessionResponse](t, resp)
	require.Equal(t, "alice@example.com", first.User.Username)
	require.Equal(t, model.RoleUser, first.User.Role)

	resp = env.do(t, http.MethodPost, "/api/auth/google", "", googleLoginRequest{IDToken: "provider-token"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeBody[sessionResponse](t, resp)
	require.Equal(t, first.User.ID, second.User.ID, "repeat federated login must reuse the account")
}

func TestGoogleLogin_GenericFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithVerifier(t, stubVerifier{err: errors.New("audience mismatch")})

	resp := env.do(t, http.MethodPost, "/api/auth/google", "", googleLoginRequest{IDToken: "anything"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestCommentDelete_EndToEnd walks the whole flow: two users, an event,
// a comment by bob, a forbidden delete by alice, an allowed delete by bob.
func TestCommentDelete_EndToEnd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret1")

	ev := env.createEvent(t, bob.Token)

	resp := env.do(t, http.MethodPost, "/api/comments", bob.Token,
		createCommentRequest{Content: "my comment", Event: ev.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeBody[commentView](t, resp)

	// alice is neither the author nor an admin
	resp = env.do(t, http.MethodDelete, "/api/comments/"+comment.ID, alice.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// bob owns the comment
	resp = env.do(t, http.MethodDelete, "/api/comments/"+comment.ID, bob.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// gone now
	resp = env.do(t, http.MethodDelete, "/api/comments/"+comment.ID, bob.Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (e *testEnv) createEvent(t *testing.T, tok string) eventView {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/events", tok, createEventRequest{
		Title:       "meetup",
		Description: "monthly meetup",
		Date:        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create event")
	return decodeBody[eventView](t, resp)
}

func TestListEvents_PublicAndFiltered(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")
	env.createEvent(t, alice.Token)

	resp := env.do(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decodeBody[[]eventView](t, resp)
	require.Len(t, events, 1)
	require.Equal(t, alice.User.ID, events[0].Creator)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/events?creator=%s", alice.User.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/events?creator=not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
