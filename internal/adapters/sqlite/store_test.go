package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/sqlite"
	"go.trai.ch/herd/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func openStore(t *testing.T, opts ...sqlite.Option) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "nested", "herd.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesDatabaseAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "herd.db")

	for range 3 {
		s, err := sqlite.Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestOpen_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := sqlite.Open(filepath.Join(blocker, "herd.db"))
	require.ErrorIs(t, err, domain.ErrStoreOpenFailed)
}

func TestIdentities_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	older := domain.NewIdentity("dev-1", map[string]string{"install_id": "1"}, time.UnixMilli(1000), nil)
	newer := domain.NewIdentity("dev-2", map[string]string{"install_id": "2"}, time.UnixMilli(2000),
		&domain.Proxy{Scheme: "socks5", Host: "10.0.0.1:1080"})
	require.NoError(t, s.InsertIdentity(ctx, older))
	require.NoError(t, s.InsertIdentity(ctx, newer))

	all, err := s.ListIdentities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dev-2", all[0].ID)
	assert.Equal(t, map[string]string{"install_id": "2"}, all[0].Binding)
	assert.Nil(t, all[0].Proxy(), "proxies are not persisted")

	limited, err := s.ListIdentities(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestIDMapping(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.LookupIDMapping(ctx, "someone")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.UpsertIDMapping(ctx, "someone", "MS4w-old"))
	require.NoError(t, s.UpsertIDMapping(ctx, "someone", "MS4w-new"))

	got, ok, err := s.LookupIDMapping(ctx, "someone")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "MS4w-new", got)
}

func TestEntities_UpsertIsIdempotent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := openStore(t, sqlite.WithClock(clock.now))
	ctx := context.Background()

	rec := domain.Record{Kind: domain.KindProfile, ID: "u1", Owner: "u1", Payload: []byte(`{"sid":"u1"}`), ExpiresAt: 42}
	require.NoError(t, s.UpsertEntity(ctx, rec))
	require.NoError(t, s.UpsertEntity(ctx, rec))

	got, ok, err := s.LookupEntity(ctx, domain.KindProfile, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Payload, got.Payload)
	assert.Equal(t, int64(42), got.ExpiresAt)
	assert.Equal(t, clock.t.UnixMilli(), got.InsertedAt.UnixMilli())

	_, ok, err = s.LookupEntity(ctx, domain.KindPost, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "kinds are separate tables")
}

func TestEntities_LatestNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i, ts := range []int64{300, 100, 200} {
		require.NoError(t, s.UpsertEntity(ctx, domain.Record{
			Kind:    domain.KindPost,
			ID:      string(rune('a' + i)),
			Owner:   "author",
			SortKey: ts,
			Payload: []byte("{}"),
		}))
	}
	require.NoError(t, s.UpsertEntity(ctx, domain.Record{Kind: domain.KindPost, ID: "z", Owner: "other", SortKey: 999, Payload: []byte("{}")}))

	recs, err := s.LatestEntities(ctx, domain.KindPost, "author", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(300), recs[0].SortKey)
	assert.Equal(t, int64(200), recs[1].SortKey)
}

func TestEntities_DeleteOlderThan(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := openStore(t, sqlite.WithClock(clock.now))
	ctx := context.Background()

	require.NoError(t, s.UpsertEntity(ctx, domain.Record{Kind: domain.KindProfile, ID: "old", Owner: "old", Payload: []byte("{}")}))
	clock.t = clock.t.Add(2 * time.Second)
	require.NoError(t, s.UpsertEntity(ctx, domain.Record{Kind: domain.KindProfile, ID: "young", Owner: "young", Payload: []byte("{}")}))

	clock.t = clock.t.Add(899 * time.Second)
	n, err := s.DeleteOlderThan(ctx, domain.KindProfile, 900*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := s.LookupEntity(ctx, domain.KindProfile, "old")
	require.NoError(t, err)
	assert.False(t, ok, "901s old is removed")

	_, ok, err = s.LookupEntity(ctx, domain.KindProfile, "young")
	require.NoError(t, err)
	assert.True(t, ok, "899s old is retained")
}

func TestEntities_Clear(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntity(ctx, domain.Record{Kind: domain.KindProfile, ID: "p", Owner: "p", Payload: []byte("{}")}))
	require.NoError(t, s.UpsertEntity(ctx, domain.Record{Kind: domain.KindPost, ID: "q", Owner: "p", Payload: []byte("{}")}))
	require.NoError(t, s.ClearEntities(ctx, domain.KindProfile))

	_, ok, err := s.LookupEntity(ctx, domain.KindProfile, "p")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.LookupEntity(ctx, domain.KindPost, "q")
	require.NoError(t, err)
	assert.True(t, ok)
}
