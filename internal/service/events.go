package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/repository"
)

// EventService defines operations over events.
type EventService interface {
	// Create validates input and stores a new event owned by the caller.
	Create(ctx context.Context, creatorID uuid.UUID, title, description string, date time.Time) (*model.Event, error)
	// List returns events matching the filter. Public.
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	// Delete removes an event by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventServiceImpl struct {
	events repository.EventRepository
}

// NewEventService constructs EventService.
func NewEventService(events repository.EventRepository) *EventServiceImpl {
	return &EventServiceImpl{events: events}
}

// Create validates required fields and stores the event.
func (s *EventServiceImpl) Create(ctx context.Context, creatorID uuid.UUID, title, description string, date time.Time) (*model.Event, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", errs.ErrValidation)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: invalid or missing date", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	e := &model.Event{
		ID:          id,
		Title:       title,
		Description: description,
		Date:        date,
		CreatorID:   creatorID,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns events matching the filter.
func (s *EventServiceImpl) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	return s.events.List(ctx, f)
}

// Delete removes an event by ID.
func (s *EventServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}
