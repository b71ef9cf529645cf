package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/authz"
	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/repository"
	"github.com/eventboard/eventboard/internal/token"
)

// CommentService defines operations over comments. Deletion is guarded
// by the ownership policy: administrators and the author may delete.
type CommentService interface {
	// Create stores a new comment authored by the caller.
	Create(ctx context.Context, authorID uuid.UUID, eventID uuid.UUID, content string) (*model.Comment, error)
	// ListForEvent returns all comments on an event. Public.
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]model.Comment, error)
	// Delete removes a comment if the caller is its author or an admin.
	Delete(ctx context.Context, caller *token.Claims, id uuid.UUID) error
}

type CommentServiceImpl struct {
	comments repository.CommentRepository
	events   repository.EventRepository
}

// NewCommentService constructs CommentService.
func NewCommentService(comments repository.CommentRepository, events repository.EventRepository) *CommentServiceImpl {
	return &CommentServiceImpl{comments: comments, events: events}
}

// Create validates input, checks the event exists, and stores the
// comment with the caller as its never-reassigned author.
func (s *CommentServiceImpl) Create(ctx context.Context, authorID, eventID uuid.UUID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	if eventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event id is required", errs.ErrValidation)
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Comment{ID: id, Content: content, AuthorID: authorID, EventID: eventID}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListForEvent returns all comments on an event, oldest first.
func (s *CommentServiceImpl) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]model.Comment, error) {
	return s.comments.ListByEvent(ctx, eventID)
}

// Delete looks the comment up first (absence is NotFound, checked before
// any ownership comparison), then applies the ownership policy.
func (s *CommentServiceImpl) Delete(ctx context.Context, caller *token.Claims, id uuid.UUID) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanModify(caller, c.AuthorID.String()); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}
