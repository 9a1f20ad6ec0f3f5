package cache_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/memstore"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports/mocks"
	"go.trai.ch/herd/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

var defaultOpts = cache.Options{
	Enabled:       true,
	TTL:           15 * time.Minute,
	SweepInterval: 5 * time.Minute,
	ResetOnStart:  true,
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}

func profile(id string) *domain.Profile {
	return &domain.Profile{
		UserID: id,
		Name:   "Some One",
		Avatar: "https://p16.cdn/avatar.jpeg?x-expires=1700000000&x-signature=a",
	}
}

func TestProfile_UpsertIsIdempotent(t *testing.T) {
	store := memstore.New()
	c := cache.New(store, quietLogger(t), defaultOpts)
	ctx := context.Background()

	c.StoreProfile(ctx, profile("u1"))
	updated := profile("u1")
	updated.Followers = 99
	c.StoreProfile(ctx, updated)

	got, ok := c.Profile(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, int64(99), got.Followers)

	rec, ok, err := store.LookupEntity(ctx, domain.KindProfile, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), rec.ExpiresAt)
}

func TestProfile_MissingExpiryIsLoggedAndIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	store := memstore.New()
	c := cache.New(store, logger, defaultOpts)
	ctx := context.Background()

	p := profile("u2")
	p.Avatar = "https://p16.cdn/avatar.jpeg"
	c.StoreProfile(ctx, p)

	rec, ok, err := store.LookupEntity(ctx, domain.KindProfile, "u2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, rec.ExpiresAt)
}

func TestLatestPosts(t *testing.T) {
	c := cache.New(memstore.New(), quietLogger(t), defaultOpts)
	ctx := context.Background()

	_, ok := c.LatestPosts(ctx, "author", 5)
	assert.False(t, ok)

	c.StorePosts(ctx, []domain.Post{
		{ID: "1", AuthorID: "author", CreateTime: 100},
		{ID: "2", AuthorID: "author", CreateTime: 300},
		{ID: "3", AuthorID: "author", CreateTime: 200},
		{ID: "4", AuthorID: "someone-else", CreateTime: 400},
	})

	posts, ok := c.LatestPosts(ctx, "author", 2)
	require.True(t, ok)
	require.Len(t, posts, 2)
	assert.Equal(t, "2", posts[0].ID)
	assert.Equal(t, "3", posts[1].ID)

	post, ok := c.Post(ctx, "4")
	require.True(t, ok)
	assert.Equal(t, "someone-else", post.AuthorID)
}

func TestUserIDMapping(t *testing.T) {
	c := cache.New(memstore.New(), quietLogger(t), defaultOpts)
	ctx := context.Background()

	_, ok := c.LookupUserID(ctx, "someone")
	assert.False(t, ok)

	c.StoreUserID(ctx, "someone", "MS4w")
	got, ok := c.LookupUserID(ctx, "someone")
	require.True(t, ok)
	assert.Equal(t, "MS4w", got)

	got, ok = c.LookupUserID(ctx, "@SomeOne")
	require.True(t, ok)
	assert.Equal(t, "MS4w", got)
}

func TestDisabled(t *testing.T) {
	store := memstore.New()
	opts := defaultOpts
	opts.Enabled = false
	c := cache.New(store, quietLogger(t), opts)
	ctx := context.Background()

	c.StoreProfile(ctx, profile("u1"))
	c.StoreUserID(ctx, "someone", "u1")
	c.StorePosts(ctx, []domain.Post{{ID: "1", AuthorID: "u1"}})

	_, ok := c.Profile(ctx, "u1")
	assert.False(t, ok)
	_, ok = c.LookupUserID(ctx, "someone")
	assert.False(t, ok)
	_, ok = c.LatestPosts(ctx, "u1", 10)
	assert.False(t, ok)

	_, ok, err := store.LookupEntity(ctx, domain.KindProfile, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "disabled cache does not write")
}

func TestStoreErrorsAreMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	boom := errors.New("database is locked")

	store.EXPECT().LookupEntity(gomock.Any(), domain.KindProfile, "u1").Return(domain.Record{}, false, boom)
	store.EXPECT().LookupIDMapping(gomock.Any(), "someone").Return("", false, boom)
	store.EXPECT().UpsertEntity(gomock.Any(), gomock.Any()).Return(boom)
	logger.EXPECT().Error(gomock.Any()).Times(3)

	c := cache.New(store, logger, defaultOpts)
	ctx := context.Background()

	_, ok := c.Profile(ctx, "u1")
	assert.False(t, ok)
	_, ok = c.LookupUserID(ctx, "someone")
	assert.False(t, ok)
	c.StoreProfile(ctx, profile("u1"))
}

func TestSweep_Boundary(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := cache.New(memstore.New(), quietLogger(t), defaultOpts)
		ctx := t.Context()

		c.StoreProfile(ctx, profile("old"))
		time.Sleep(2 * time.Second)
		c.StoreProfile(ctx, profile("young"))
		c.StoreUserID(ctx, "old-name", "old")
		time.Sleep(899 * time.Second)

		removed := c.Sweep(ctx, 900*time.Second)
		assert.Equal(t, int64(1), removed)

		_, ok := c.Profile(ctx, "old")
		assert.False(t, ok, "901s old is removed")
		_, ok = c.Profile(ctx, "young")
		assert.True(t, ok, "899s old is retained")
		_, ok = c.LookupUserID(ctx, "old-name")
		assert.True(t, ok, "mappings never expire")
	})
}

func TestRun_SweepsOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := cache.New(memstore.New(), quietLogger(t), defaultOpts)
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()

		c.StoreProfile(ctx, profile("u1"))
		c.StorePosts(ctx, []domain.Post{{ID: "p1", AuthorID: "u1"}})

		// Ticks at 5m, 10m and 15m find nothing strictly older than 15m.
		time.Sleep(15 * time.Minute)
		synctest.Wait()
		_, ok := c.Profile(ctx, "u1")
		assert.True(t, ok)

		time.Sleep(5 * time.Minute)
		synctest.Wait()
		_, ok = c.Profile(ctx, "u1")
		assert.False(t, ok)
		_, ok = c.Post(ctx, "p1")
		assert.False(t, ok)

		cancel()
		require.NoError(t, <-done)
	})
}

func TestReset(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	keep := cache.New(store, quietLogger(t), cache.Options{Enabled: true})
	keep.StoreProfile(ctx, profile("u1"))
	keep.StoreUserID(ctx, "someone", "u1")
	keep.Reset(ctx)
	_, ok := keep.Profile(ctx, "u1")
	assert.True(t, ok, "reset is a no-op unless configured")

	c := cache.New(store, quietLogger(t), defaultOpts)
	c.Reset(ctx)
	_, ok = c.Profile(ctx, "u1")
	assert.False(t, ok)
	_, ok = c.LookupUserID(ctx, "someone")
	assert.True(t, ok)
}
