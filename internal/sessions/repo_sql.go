package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLRepo implements Repo on the sessions table. The tables and result are
// stored as one JSON payload; timestamps are unix milliseconds.
type SQLRepo struct {
	DB *sql.DB
}

// Create inserts a new session.
func (r *SQLRepo) Create(ctx context.Context, s Session) error {
	const query = `
INSERT INTO sessions (id, created_at, updated_at, expires_at, payload)
VALUES (?, ?, ?, ?, ?)`
	payload, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("marshal session payload: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		s.ID,
		s.CreatedAt.UnixMilli(),
		s.UpdatedAt.UnixMilli(),
		s.ExpiresAt.UnixMilli(),
		string(payload),
	)
	return err
}

// Get returns a session by id.
func (r *SQLRepo) Get(ctx context.Context, id string) (Session, error) {
	const query = `
SELECT id, created_at, updated_at, expires_at, payload
FROM sessions
WHERE id = ?
LIMIT 1`
	var (
		s                           Session
		created, updated, expiresAt int64
		payload                     sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &created, &updated, &expiresAt, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	s.CreatedAt = time.UnixMilli(created).UTC()
	s.UpdatedAt = time.UnixMilli(updated).UTC()
	s.ExpiresAt = time.UnixMilli(expiresAt).UTC()
	if payload.Valid && payload.String != "" {
		if err := json.Unmarshal([]byte(payload.String), &s.Data); err != nil {
			return Session{}, fmt.Errorf("decode session payload: %w", err)
		}
	}
	return s, nil
}

// Save replaces the payload and timestamps of an existing session.
func (r *SQLRepo) Save(ctx context.Context, s Session) error {
	const query = `
UPDATE sessions
SET updated_at = ?, expires_at = ?, payload = ?
WHERE id = ?`
	payload, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("marshal session payload: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, s.UpdatedAt.UnixMilli(), s.ExpiresAt.UnixMilli(), string(payload), s.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a session.
func (r *SQLRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// PurgeExpired removes sessions that expired at or before now.
func (r *SQLRepo) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
