package journal

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS navigation_events (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	op          TEXT NOT NULL,
	from_screen TEXT NOT NULL,
	to_screen   TEXT NOT NULL,
	role        TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_navigation_events_session ON navigation_events (session_id, occurred_at DESC);
`

// Repository persists journal events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the journal table if needed.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Record inserts an event; replays of the same event id are ignored.
func (r *Repository) Record(ctx context.Context, evt Event) error {
	if evt.ID == "" || evt.SessionID == "" {
		return errors.New("event id and session id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO navigation_events (id, session_id, op, from_screen, to_screen, role, outcome, error, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING
	`, evt.ID, evt.SessionID, evt.Op, evt.From, evt.To, evt.Role, evt.Outcome, evt.Error, evt.At)
	return err
}

// List returns events newest first, optionally for one session.
func (r *Repository) List(ctx context.Context, sessionID string, limit, offset int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, session_id, op, from_screen, to_screen, role, outcome, error, occurred_at FROM navigation_events`
	var args []any
	if sessionID != "" {
		args = append(args, sessionID)
		query += " WHERE session_id = $1"
	}
	var b strings.Builder
	b.WriteString(query)
	b.WriteString(" ORDER BY occurred_at DESC LIMIT $" + strconv.Itoa(len(args)+1))
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Event{}
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.SessionID, &evt.Op, &evt.From, &evt.To, &evt.Role, &evt.Outcome, &evt.Error, &evt.At); err != nil {
			return nil, err
		}
		res = append(res, evt)
	}
	return res, rows.Err()
}
