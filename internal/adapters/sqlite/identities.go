package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.trai.ch/herd/internal/core/domain"
)

// InsertIdentity persists id. Re-inserting an existing id overwrites its binding.
func (s *Store) InsertIdentity(ctx context.Context, id *domain.Identity) error {
	binding, err := json.Marshal(id.Binding)
	if err != nil {
		return writeErr(err, "identities")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO identities (id, binding, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET binding = excluded.binding
	`, id.ID, string(binding), id.CreatedAt.UnixMilli())
	if err != nil {
		return writeErr(err, "identities")
	}
	return nil
}

// ListIdentities returns up to limit identities, newest first. A non-positive
// limit returns all of them.
func (s *Store) ListIdentities(ctx context.Context, limit int) ([]*domain.Identity, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, binding, created_at FROM identities
		ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, readErr(err, "identities")
	}
	defer rows.Close()

	var out []*domain.Identity
	for rows.Next() {
		var (
			id        string
			raw       string
			createdAt int64
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, readErr(err, "identities")
		}
		binding := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &binding); err != nil {
			return nil, readErr(err, "identities")
		}
		out = append(out, domain.NewIdentity(id, binding, time.UnixMilli(createdAt), nil))
	}
	if err := rows.Err(); err != nil {
		return nil, readErr(err, "identities")
	}
	return out, nil
}

// UpsertIDMapping maps username to userID.
func (s *Store) UpsertIDMapping(ctx context.Context, username, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO id_mappings (username, user_id) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET user_id = excluded.user_id
	`, username, userID)
	if err != nil {
		return writeErr(err, "id_mappings")
	}
	return nil
}

// LookupIDMapping returns the user id stored for username.
func (s *Store) LookupIDMapping(ctx context.Context, username string) (string, bool, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM id_mappings WHERE username = ?`, username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, readErr(err, "id_mappings")
	}
	return userID, true, nil
}
