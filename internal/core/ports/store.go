package ports

import (
	"context"
	"time"

	"go.trai.ch/herd/internal/core/domain"
)

// Store persists identities, id mappings and cached entity records.
// Every method is a short, self-contained statement; concurrent upserts rely
// on the store's own insert-or-update semantics.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	// InsertIdentity persists a newly created identity. Its proxy is not stored.
	InsertIdentity(ctx context.Context, id *domain.Identity) error
	// ListIdentities returns up to limit persisted identities in no particular order.
	ListIdentities(ctx context.Context, limit int) ([]*domain.Identity, error)

	// UpsertIDMapping maps a username to a user id. Mappings never expire.
	UpsertIDMapping(ctx context.Context, username, userID string) error
	// LookupIDMapping returns the user id for username, or false if unknown.
	LookupIDMapping(ctx context.Context, username string) (string, bool, error)

	// UpsertEntity inserts or overwrites a record keyed by (kind, id).
	UpsertEntity(ctx context.Context, rec domain.Record) error
	// LookupEntity returns the record for (kind, id), or false if absent.
	LookupEntity(ctx context.Context, kind domain.EntityKind, id string) (domain.Record, bool, error)
	// LatestEntities returns up to limit records of kind owned by owner, highest SortKey first.
	LatestEntities(ctx context.Context, kind domain.EntityKind, owner string, limit int) ([]domain.Record, error)
	// DeleteOlderThan removes records of kind whose age is strictly greater than maxAge.
	DeleteOlderThan(ctx context.Context, kind domain.EntityKind, maxAge time.Duration) (int64, error)
	// ClearEntities removes every record of kind.
	ClearEntities(ctx context.Context, kind domain.EntityKind) error

	// Close releases the store's resources.
	Close() error
}
