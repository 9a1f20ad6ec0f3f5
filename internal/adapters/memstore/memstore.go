// Package memstore implements ports.Store in process memory. Nothing survives
// a restart, so it suits tests and cache-only deployments.
package memstore

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
)

const shardCount = 16

var _ ports.Store = (*Store)(nil)

type entityKey struct {
	kind domain.EntityKind
	id   string
}

// shard owns the entity records whose id hashes to it.
type shard struct {
	mu      sync.RWMutex
	records map[entityKey]domain.Record
}

// Store is an in-memory ports.Store. Entity records are spread over shards by
// the xxhash of their id; identities and id mappings sit behind one lock.
type Store struct {
	now    func() time.Time
	shards [shardCount]*shard

	mu         sync.RWMutex
	identities []*domain.Identity
	mappings   map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for insertion times and age checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		mappings: make(map[string]string),
	}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[entityKey]domain.Record)}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	return s.shards[xxhash.Sum64String(id)%shardCount]
}

// InsertIdentity stores id, replacing an identity with the same ID.
func (s *Store) InsertIdentity(_ context.Context, id *domain.Identity) error {
	stored := domain.NewIdentity(id.ID, maps.Clone(id.Binding), id.CreatedAt, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.identities {
		if existing.ID == id.ID {
			s.identities[i] = stored
			return nil
		}
	}
	s.identities = append(s.identities, stored)
	return nil
}

// ListIdentities returns up to limit identities, newest first.
func (s *Store) ListIdentities(_ context.Context, limit int) ([]*domain.Identity, error) {
	s.mu.RLock()
	all := slices.Clone(s.identities)
	s.mu.RUnlock()

	slices.SortStableFunc(all, func(a, b *domain.Identity) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]*domain.Identity, len(all))
	for i, id := range all {
		out[i] = domain.NewIdentity(id.ID, maps.Clone(id.Binding), id.CreatedAt, nil)
	}
	return out, nil
}

// UpsertIDMapping maps username to userID.
func (s *Store) UpsertIDMapping(_ context.Context, username, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[username] = userID
	return nil
}

// LookupIDMapping returns the user id stored for username.
func (s *Store) LookupIDMapping(_ context.Context, username string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.mappings[username]
	return userID, ok, nil
}

// UpsertEntity inserts or overwrites rec. A zero InsertedAt means now.
func (s *Store) UpsertEntity(_ context.Context, rec domain.Record) error {
	if rec.InsertedAt.IsZero() {
		rec.InsertedAt = s.now()
	}
	rec.Payload = slices.Clone(rec.Payload)

	sh := s.shardFor(rec.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.records[entityKey{kind: rec.Kind, id: rec.ID}] = rec
	return nil
}

// LookupEntity returns the record stored under kind and id.
func (s *Store) LookupEntity(_ context.Context, kind domain.EntityKind, id string) (domain.Record, bool, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec, ok := sh.records[entityKey{kind: kind, id: id}]
	return rec, ok, nil
}

// LatestEntities returns up to limit records of kind owned by owner, highest sort key first.
func (s *Store) LatestEntities(_ context.Context, kind domain.EntityKind, owner string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	var out []domain.Record
	for _, sh := range s.shards {
		sh.mu.RLock()
		for key, rec := range sh.records {
			if key.kind == kind && rec.Owner == owner {
				out = append(out, rec)
			}
		}
		sh.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b domain.Record) int {
		if c := cmp.Compare(b.SortKey, a.SortKey); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteOlderThan removes records of kind inserted strictly more than maxAge ago.
func (s *Store) DeleteOlderThan(_ context.Context, kind domain.EntityKind, maxAge time.Duration) (int64, error) {
	now := s.now()
	var removed int64
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, rec := range sh.records {
			if key.kind == kind && now.Sub(rec.InsertedAt) > maxAge {
				delete(sh.records, key)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed, nil
}

// ClearEntities removes every record of kind.
func (s *Store) ClearEntities(_ context.Context, kind domain.EntityKind) error {
	for _, sh := range s.shards {
		sh.mu.Lock()
		maps.DeleteFunc(sh.records, func(key entityKey, _ domain.Record) bool {
			return key.kind == kind
		})
		sh.mu.Unlock()
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
