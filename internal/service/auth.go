// Package service contains application services for authentication,
// user administration, events, and comments.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/authz"
	pkgcrypto "github.com/eventboard/eventboard/internal/crypto"
	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/identity"
	"github.com/eventboard/eventboard/internal/limiter"
	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/repository"
	"github.com/eventboard/eventboard/internal/token"
)

// AuthService defines authentication operations: local login,
// federated login, and account registration.
type AuthService interface {
	// Login applies rate limiting and authenticates with username/password.
	Login(ctx context.Context, username, password, ip string) (model.Session, error)
	// LoginWithIDToken authenticates via a third-party identity assertion,
	// creating the account on first sight.
	LoginWithIDToken(ctx context.Context, rawIDToken string) (model.Session, error)
	// Register creates a user-role account and issues a session.
	Register(ctx context.Context, username, password string) (model.Session, error)
	// RegisterAdmin creates an admin-role account; only admins may call it.
	RegisterAdmin(ctx context.Context, caller *token.Claims, username, password string) (model.Session, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	codec    *token.Codec
	verifier identity.Verifier
	lim      limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, codec *token.Codec, verifier identity.Verifier, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, codec: codec, verifier: verifier, lim: lim}
}

// Login authenticates with rate limiting by (username, ip). Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (model.Session, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Session{}, err
	}
	if !allowed {
		return model.Session{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		// infrastructure failure, never an auth decision
		return model.Session{}, err
	}
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Session{}, errs.ErrRateLimited
		}
		// hide existence of the user on wrong password
		return model.Session{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	return s.issueSession(u)
}

// LoginWithIDToken consumes a provider-verified identity assertion.
// First sight creates a user-role account with an unusable local
// password; repeat logins find the existing account.
func (s *AuthServiceImpl) LoginWithIDToken(ctx context.Context, rawIDToken string) (model.Session, error) {
	ident, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}
	if !ident.EmailVerified {
		return model.Session{}, fmt.Errorf("%w: email not verified", errs.ErrUnauthorized)
	}

	u, err := s.users.GetByUsername(ctx, ident.Handle)
	if errors.Is(err, errs.ErrNotFound) {
		u, err = s.createFederated(ctx, ident.Handle)
	}
	if err != nil {
		return model.Session{}, err
	}
	return s.issueSession(u)
}

// createFederated creates the account for a first federated login. The
// local password is a hash of random material and cannot be used to log
// in; the account authenticates through the provider only.
func (s *AuthServiceImpl) createFederated(ctx context.Context, handle string) (*model.User, error) {
	throwaway, err := pkgcrypto.RandBytes(32)
	if err != nil {
		return nil, err
	}
	hash, err := pkgcrypto.HashPassword(base64.RawStdEncoding.EncodeToString(throwaway))
	if err != nil {
		return nil, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	u := &model.User{ID: uid, Username: handle, PwdHash: hash, Role: model.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			// lost the race against a concurrent first login: use the winner
			return s.users.GetByUsername(ctx, handle)
		}
		return nil, err
	}
	return u, nil
}

// Register creates a user-role account and issues a session as Login would.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (model.Session, error) {
	return s.register(ctx, username, password, model.RoleUser)
}

// RegisterAdmin creates an admin-role account. The caller's role is
// checked before any validation of the new account's fields.
func (s *AuthServiceImpl) RegisterAdmin(ctx context.Context, caller *token.Claims, username, password string) (model.Session, error) {
	if err := authz.RequireRole(caller, model.RoleAdmin); err != nil {
		return model.Session{}, err
	}
	return s.register(ctx, username, password, model.RoleAdmin)
}

func (s *AuthServiceImpl) register(ctx context.Context, username, password string, role model.Role) (model.Session, error) {
	if username == "" || password == "" {
		return model.Session{}, fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}
	if len(password) < 6 {
		return model.Session{}, fmt.Errorf("%w: password must be at least 6 characters", errs.ErrValidation)
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return model.Session{}, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.Session{}, err
	}
	u := &model.User{ID: uid, Username: username, PwdHash: hash, Role: role}

	// No lookup-then-create window: the store's uniqueness constraint is
	// the backstop, so a concurrent duplicate surfaces as a conflict.
	if err := s.users.Create(ctx, u); err != nil {
		return model.Session{}, err
	}
	return s.issueSession(u)
}

func (s *AuthServiceImpl) issueSession(u *model.User) (model.Session, error) {
	signed, exp, err := s.codec.Issue(u.ID, u.Role)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{Token: signed, ExpiresAt: exp, User: *u}, nil
}
