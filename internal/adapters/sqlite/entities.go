package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.trai.ch/herd/internal/core/domain"
)

// UpsertEntity inserts rec or overwrites the row with the same kind and id.
// The insertion time is reset on every write; a zero InsertedAt means now.
func (s *Store) UpsertEntity(ctx context.Context, rec domain.Record) error {
	inserted := rec.InsertedAt
	if inserted.IsZero() {
		inserted = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entities (kind, id, owner, sort_key, payload, inserted_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			owner = excluded.owner,
			sort_key = excluded.sort_key,
			payload = excluded.payload,
			inserted_at = excluded.inserted_at,
			expires_at = excluded.expires_at
	`, string(rec.Kind), rec.ID, rec.Owner, rec.SortKey, rec.Payload, inserted.UnixMilli(), rec.ExpiresAt)
	if err != nil {
		return writeErr(err, string(rec.Kind))
	}
	return nil
}

// LookupEntity returns the record stored under kind and id.
func (s *Store) LookupEntity(ctx context.Context, kind domain.EntityKind, id string) (domain.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT kind, id, owner, sort_key, payload, inserted_at, expires_at
		FROM entities WHERE kind = ? AND id = ?
	`, string(kind), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Record{}, false, readErr(err, string(kind))
	}
	return rec, true, nil
}

// LatestEntities returns up to limit records of kind owned by owner, highest sort key first.
func (s *Store) LatestEntities(ctx context.Context, kind domain.EntityKind, owner string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, id, owner, sort_key, payload, inserted_at, expires_at
		FROM entities WHERE kind = ? AND owner = ?
		ORDER BY sort_key DESC, id DESC LIMIT ?
	`, string(kind), owner, limit)
	if err != nil {
		return nil, readErr(err, string(kind))
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, readErr(err, string(kind))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr(err, string(kind))
	}
	return out, nil
}

// DeleteOlderThan removes records of kind inserted strictly more than maxAge ago.
func (s *Store) DeleteOlderThan(ctx context.Context, kind domain.EntityKind, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE kind = ? AND inserted_at < ?`, string(kind), cutoff)
	if err != nil {
		return 0, writeErr(err, string(kind))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, writeErr(err, string(kind))
	}
	return n, nil
}

// ClearEntities removes every record of kind.
func (s *Store) ClearEntities(ctx context.Context, kind domain.EntityKind) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE kind = ?`, string(kind)); err != nil {
		return writeErr(err, string(kind))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var (
		rec      domain.Record
		kind     string
		inserted int64
	)
	if err := row.Scan(&kind, &rec.ID, &rec.Owner, &rec.SortKey, &rec.Payload, &inserted, &rec.ExpiresAt); err != nil {
		return domain.Record{}, err
	}
	rec.Kind = domain.EntityKind(kind)
	rec.InsertedAt = time.UnixMilli(inserted)
	return rec, nil
}
