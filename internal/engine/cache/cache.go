// Package cache keeps remote results in the persistent store for a bounded time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/text/cases"
)

// sweptKinds are the entity tables subject to TTL expiry. Id mappings never expire.
var sweptKinds = []domain.EntityKind{domain.KindProfile, domain.KindPost}

// Entity is a rich record that can be cached.
type Entity interface {
	EntityID() string
	EntityOwner() string
	EntitySortKey() int64
	MediaURL() string
}

// Options configures a Cache.
type Options struct {
	Enabled       bool
	TTL           time.Duration
	SweepInterval time.Duration
	ResetOnStart  bool
}

// OptionsFrom converts the cache section of the service configuration.
func OptionsFrom(cfg domain.CacheConfig) Options {
	return Options{
		Enabled:       cfg.Enabled,
		TTL:           cfg.TTL,
		SweepInterval: cfg.SweepInterval,
		ResetOnStart:  cfg.ResetOnStart,
	}
}

// Cache is a typed view over ports.Store. Store failures are logged and
// reported as misses.
type Cache struct {
	store  ports.Store
	logger ports.Logger
	opts   Options
}

// New creates a Cache.
func New(store ports.Store, logger ports.Logger, opts Options) *Cache {
	return &Cache{store: store, logger: logger, opts: opts}
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c.opts.Enabled
}

// LookupUserID returns the user id cached for username.
func (c *Cache) LookupUserID(ctx context.Context, username string) (string, bool) {
	if !c.opts.Enabled {
		return "", false
	}
	userID, ok, err := c.store.LookupIDMapping(ctx, usernameKey(username))
	if err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "id mapping lookup failed"), "username", username))
		return "", false
	}
	return userID, ok
}

// StoreUserID caches the user id behind username.
func (c *Cache) StoreUserID(ctx context.Context, username, userID string) {
	if !c.opts.Enabled {
		return
	}
	if err := c.store.UpsertIDMapping(ctx, usernameKey(username), userID); err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "id mapping upsert failed"), "username", username))
	}
}

// usernameKey folds case and drops a leading @ so spellings of one handle share a mapping.
func usernameKey(username string) string {
	return cases.Fold().String(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// Profile returns the cached profile for userID.
func (c *Cache) Profile(ctx context.Context, userID string) (*domain.Profile, bool) {
	return lookup[domain.Profile](ctx, c, domain.KindProfile, userID)
}

// StoreProfile caches p, replacing an earlier copy.
func (c *Cache) StoreProfile(ctx context.Context, p *domain.Profile) {
	upsert(ctx, c, domain.KindProfile, p)
}

// LatestPosts returns up to limit cached posts of owner, newest first.
func (c *Cache) LatestPosts(ctx context.Context, owner string, limit int) ([]domain.Post, bool) {
	if !c.opts.Enabled || limit <= 0 {
		return nil, false
	}
	recs, err := c.store.LatestEntities(ctx, domain.KindPost, owner, limit)
	if err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "cached posts lookup failed"), "owner", owner))
		return nil, false
	}
	posts := make([]domain.Post, 0, len(recs))
	for _, rec := range recs {
		var post domain.Post
		if err := json.Unmarshal(rec.Payload, &post); err != nil {
			c.logger.Error(zerr.With(zerr.Wrap(err, "corrupt cached post"), "id", rec.ID))
			return nil, false
		}
		posts = append(posts, post)
	}
	return posts, len(posts) > 0
}

// Post returns the cached post with id.
func (c *Cache) Post(ctx context.Context, id string) (*domain.Post, bool) {
	return lookup[domain.Post](ctx, c, domain.KindPost, id)
}

// StorePosts caches every post.
func (c *Cache) StorePosts(ctx context.Context, posts []domain.Post) {
	for i := range posts {
		upsert(ctx, c, domain.KindPost, &posts[i])
	}
}

// Sweep removes every record older than maxAge. Records exactly maxAge old are kept.
func (c *Cache) Sweep(ctx context.Context, maxAge time.Duration) int64 {
	var total int64
	for _, kind := range sweptKinds {
		n, err := c.store.DeleteOlderThan(ctx, kind, maxAge)
		if err != nil {
			c.logger.Error(zerr.With(zerr.Wrap(err, "cache sweep failed"), "kind", string(kind)))
			continue
		}
		total += n
	}
	return total
}

// Reset empties the entity tables when configured to start clean.
func (c *Cache) Reset(ctx context.Context) {
	if !c.opts.ResetOnStart {
		return
	}
	for _, kind := range sweptKinds {
		if err := c.store.ClearEntities(ctx, kind); err != nil {
			c.logger.Error(zerr.With(zerr.Wrap(err, "cache reset failed"), "kind", string(kind)))
		}
	}
}

// Run sweeps records older than the TTL every sweep interval until ctx is done.
func (c *Cache) Run(ctx context.Context) error {
	if c.opts.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := c.Sweep(ctx, c.opts.TTL); n > 0 {
				c.logger.Info(fmt.Sprintf("cache sweep removed %d records", n))
			}
		}
	}
}

func lookup[T any](ctx context.Context, c *Cache, kind domain.EntityKind, id string) (*T, bool) {
	if !c.opts.Enabled {
		return nil, false
	}
	rec, ok, err := c.store.LookupEntity(ctx, kind, id)
	if err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "cache lookup failed"), "kind", string(kind)))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(rec.Payload, &v); err != nil {
		c.logger.Error(zerr.With(zerr.With(zerr.Wrap(err, "corrupt cache record"), "kind", string(kind)), "id", id))
		return nil, false
	}
	return &v, true
}

func upsert(ctx context.Context, c *Cache, kind domain.EntityKind, e Entity) {
	if !c.opts.Enabled {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		c.logger.Error(zerr.With(zerr.Wrap(err, "cache encode failed"), "kind", string(kind)))
		return
	}

	expires, err := domain.ExtractExpiry(e.MediaURL())
	if err != nil {
		c.logger.Warn(fmt.Sprintf("no media expiry for %s %s", kind, e.EntityID()))
	}

	rec := domain.Record{
		Kind:      kind,
		ID:        e.EntityID(),
		Owner:     e.EntityOwner(),
		SortKey:   e.EntitySortKey(),
		Payload:   payload,
		ExpiresAt: expires,
	}
	if err := c.store.UpsertEntity(ctx, rec); err != nil {
		c.logger.Error(zerr.With(zerr.With(zerr.Wrap(err, "cache upsert failed"), "kind", string(kind)), "id", rec.ID))
	}
}
