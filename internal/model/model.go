// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the access level stored on a user account and embedded in tokens.
type Role string

const (
	// RoleUser is the default role for self-registered and federated accounts.
	RoleUser Role = "user"
	// RoleAdmin grants administrative operations and bypasses ownership checks.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User represents an account stored on the server. The password hash is
// bcrypt output and embeds its own salt and cost factor.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique, case-sensitive
	PwdHash   string    // bcrypt(password)
	Role      Role
	CreatedAt time.Time
}

// PublicUser is the account view returned to clients. Never carries the hash.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID.String(), Username: u.Username, Role: u.Role}
}

// Session is the result of a successful authentication: a signed bearer
// token plus the account it was issued for.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Event is a published event users can comment on.
type Event struct {
	ID          uuid.UUID
	Title       string
	Description string
	Date        time.Time
	CreatorID   uuid.UUID // FK -> users.id
	CreatedAt   time.Time
}

// Comment belongs to an event and keeps a weak reference to its author,
// set at creation and never reassigned. Used for ownership checks on delete.
type Comment struct {
	ID        uuid.UUID
	Content   string
	AuthorID  uuid.UUID // FK -> users.id
	EventID   uuid.UUID // FK -> events.id
	CreatedAt time.Time
}

// EventFilter narrows and pages event listings.
type EventFilter struct {
	CreatorID *uuid.UUID // nil means any creator
	SortBy    string     // whitelisted column, defaults to date
	Page      int        // 1-based
	Limit     int
}
