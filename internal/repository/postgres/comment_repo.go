package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
)

// CommentRepo implements CommentRepository using PostgreSQL.
type CommentRepo struct{ db *DB }

// NewCommentRepo constructs a comment repository.
func NewCommentRepo(db *DB) *CommentRepo { return &CommentRepo{db: db} }

// Create inserts a new comment row.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	const q = `
INSERT INTO comments (id, content, author_id, event_id)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.Content, c.AuthorID, c.EventID)
	return err
}

// GetByID selects a comment by ID.
func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	const q = `
SELECT id, content, author_id, event_id, created_at
FROM comments WHERE id=$1`
	var c model.Comment
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&c.ID, &c.Content, &c.AuthorID, &c.EventID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByEvent returns all comments for an event, oldest first.
func (r *CommentRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Comment, error) {
	const q = `
SELECT id, content, author_id, event_id, created_at
FROM comments WHERE event_id=$1 ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.EventID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a comment by ID.
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM comments WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
