package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
)

// EventRepo implements EventRepository using PostgreSQL.
type EventRepo struct{ db *DB }

// NewEventRepo constructs an event repository.
func NewEventRepo(db *DB) *EventRepo { return &EventRepo{db: db} }

// sortColumns whitelists sortable columns; anything else falls back to date.
var sortColumns = map[string]string{
	"date":       "date",
	"title":      "title",
	"created_at": "created_at",
}

// Create inserts a new event row.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `
INSERT INTO events (id, title, description, date, creator_id)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, e.ID, e.Title, e.Description, e.Date, e.CreatorID)
	return err
}

// GetByID selects an event by ID.
func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	const q = `
SELECT id, title, description, date, creator_id, created_at
FROM events WHERE id=$1`
	var e model.Event
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatorID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns events matching the filter. The sort column comes from a
// whitelist, so it is safe to interpolate.
func (r *EventRepo) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "date"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	q := `
SELECT id, title, description, date, creator_id, created_at
FROM events`
	args := []any{}
	if f.CreatorID != nil {
		q += ` WHERE creator_id=$1`
		args = append(args, *f.CreatorID)
	}
	q += fmt.Sprintf(` ORDER BY %s LIMIT %d OFFSET %d`, col, limit, offset)

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes an event by ID.
func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
