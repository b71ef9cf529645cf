package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/model"
)

// EventRepository provides CRUD access for events.
type EventRepository interface {
	// Create inserts a new event.
	Create(ctx context.Context, e *model.Event) error
	// GetByID loads an event by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// List returns events matching the filter, paged and sorted.
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	// Delete removes an event by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository provides CRUD access for comments. Each record
// carries the owning account identifier used by ownership checks.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, c *model.Comment) error
	// GetByID loads a comment by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// ListByEvent returns all comments for an event, oldest first.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Comment, error)
	// Delete removes a comment by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
