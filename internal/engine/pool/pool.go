// Package pool owns the bounded set of client identities shared by all
// racing attempts.
package pool

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Options configures a Pool.
type Options struct {
	Size                int
	Source              domain.IdentitySourceMode
	RefreshInterval     time.Duration
	MaxCreationAttempts int
	RetryPause          time.Duration
	Quorum              float64
	Workers             int
}

// OptionsFrom converts the pool section of the service configuration.
func OptionsFrom(cfg domain.PoolConfig) Options {
	return Options{
		Size:                cfg.Size,
		Source:              cfg.Source,
		RefreshInterval:     cfg.RefreshInterval,
		MaxCreationAttempts: cfg.MaxCreationAttempts,
		RetryPause:          cfg.RetryPause,
		Quorum:              cfg.Quorum,
		Workers:             cfg.Workers,
	}
}

// generation is one wholesale membership of the pool. Creations that finish
// after their generation went live still join it.
type generation struct {
	identities []*domain.Identity
}

// Pool is a mutex-guarded, round-robin set of identities.
type Pool struct {
	factory ports.IdentityFactory
	store   ports.Store
	proxies ports.ProxySource
	logger  ports.Logger
	tracer  ports.Tracer
	opts    Options
	workers *semaphore.Weighted

	mu          sync.Mutex
	live        *generation
	cursor      int
	lastRefresh time.Time
	reloading   bool
}

// New creates an empty Pool. Call Initialize to populate it.
func New(
	factory ports.IdentityFactory,
	store ports.Store,
	proxies ports.ProxySource,
	logger ports.Logger,
	tracer ports.Tracer,
	opts Options,
) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxCreationAttempts <= 0 {
		opts.MaxCreationAttempts = 1
	}
	return &Pool{
		factory: factory,
		store:   store,
		proxies: proxies,
		logger:  logger,
		tracer:  tracer,
		opts:    opts,
		workers: semaphore.NewWeighted(int64(opts.Workers)),
		live:    &generation{},
	}
}

// Initialize populates the pool from the configured source. Failures are
// logged; the pool may end up smaller than requested or empty.
func (p *Pool) Initialize(ctx context.Context) {
	next := p.load(ctx)

	p.mu.Lock()
	p.swap(next)
	size := len(p.live.identities)
	p.mu.Unlock()

	p.logger.Info(fmt.Sprintf("identity pool initialized with %d of %d identities", size, p.opts.Size))
}

// Size returns the number of identities currently in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live.identities)
}

// Checkout returns the identity at the cursor and advances it. When the refresh
// interval has elapsed the calling goroutine reloads the pool first; callers
// arriving during that reload are served from the current membership.
// With proxyEnabled false the returned identity is a detached view without proxy.
func (p *Pool) Checkout(ctx context.Context, proxyEnabled bool) (*domain.Identity, error) {
	p.mu.Lock()
	stale := !p.reloading && p.opts.RefreshInterval > 0 && time.Since(p.lastRefresh) > p.opts.RefreshInterval
	if stale {
		p.reloading = true
		p.mu.Unlock()

		next := p.load(context.WithoutCancel(ctx))

		p.mu.Lock()
		p.reloading = false
		if len(next.identities) > 0 {
			p.swap(next)
		} else {
			p.lastRefresh = time.Now()
			p.logger.Warn("identity pool reload produced no identities, keeping current membership")
		}
	}
	defer p.mu.Unlock()

	n := len(p.live.identities)
	if n == 0 {
		return nil, zerr.Wrap(domain.ErrPoolEmpty, "checkout failed")
	}
	id := p.live.identities[p.cursor%n]
	p.cursor = (p.cursor + 1) % n

	if !proxyEnabled {
		return id.Detached(), nil
	}
	return id, nil
}

// Rebind moves id to the next proxy from the proxy source. Failures are logged
// and leave the current assignment in place.
func (p *Pool) Rebind(ctx context.Context, id *domain.Identity) {
	proxy, err := p.proxies.Next(ctx)
	if err != nil {
		p.logger.Error(zerr.With(zerr.Wrap(err, "failed to rebind identity"), "identity", id.ID))
		return
	}
	id.Rebind(proxy)
}

// CreateOne creates a single identity and adds it to the pool. It reports
// whether an identity was added.
func (p *Pool) CreateOne(ctx context.Context) bool {
	p.mu.Lock()
	gen := p.live
	p.mu.Unlock()
	return p.createInto(ctx, gen)
}

// BulkCreate creates count identities concurrently into the live pool and
// returns once the quorum of them has finished.
func (p *Pool) BulkCreate(ctx context.Context, count int) {
	p.mu.Lock()
	gen := p.live
	p.mu.Unlock()
	p.bulkCreate(ctx, gen, count)
}

func (p *Pool) load(ctx context.Context) *generation {
	next := &generation{}
	switch p.opts.Source {
	case domain.SourceLoadExisting:
		p.loadExisting(ctx, next)
	default:
		p.bulkCreate(ctx, next, p.opts.Size)
	}
	return next
}

// swap installs next as the live membership. Callers must hold p.mu.
func (p *Pool) swap(next *generation) {
	p.live = next
	p.cursor = 0
	p.lastRefresh = time.Now()
}

func (p *Pool) loadExisting(ctx context.Context, into *generation) {
	ids, err := p.store.ListIdentities(ctx, p.opts.Size)
	if err != nil {
		p.logger.Error(zerr.Wrap(err, "failed to load persisted identities"))
		return
	}
	for _, id := range ids {
		p.Rebind(ctx, id)
	}

	p.mu.Lock()
	into.identities = append(into.identities, ids...)
	p.mu.Unlock()
}

func (p *Pool) quorum(count int) int {
	q := int(math.Ceil(float64(count) * p.opts.Quorum))
	return max(0, min(q, count))
}

func (p *Pool) bulkCreate(ctx context.Context, into *generation, count int) {
	if count <= 0 {
		return
	}
	ctx, span := p.tracer.Start(ctx, "pool.bulk_create", ports.WithAttribute("count", count))
	defer span.End()

	done := make(chan bool, count)
	for range count {
		go func() {
			if err := p.workers.Acquire(ctx, 1); err != nil {
				done <- false
				return
			}
			defer p.workers.Release(1)
			done <- p.createInto(ctx, into)
		}()
	}

	need := p.quorum(count)
	created := 0
	for finished := 0; finished < need; finished++ {
		select {
		case ok := <-done:
			if ok {
				created++
			}
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return
		}
	}
	span.SetAttribute("created_before_quorum", created)
}

func (p *Pool) createInto(ctx context.Context, into *generation) bool {
	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxCreationAttempts; attempt++ {
		id, err := p.createAttempt(ctx)
		if err == nil {
			p.mu.Lock()
			into.identities = append(into.identities, id)
			p.mu.Unlock()

			if err := p.store.InsertIdentity(ctx, id); err != nil {
				p.logger.Error(zerr.With(zerr.Wrap(err, "failed to persist identity"), "identity", id.ID))
			}
			return true
		}
		lastErr = err

		if domain.FailureKindOf(err) != domain.FailureConnection {
			p.logger.Error(zerr.With(zerr.Wrap(err, "identity creation attempt failed"), "attempt", attempt))
			continue
		}

		if attempt == p.opts.MaxCreationAttempts {
			break
		}
		p.logger.Warn(fmt.Sprintf("connection error creating identity (attempt %d/%d), retrying in %s",
			attempt, p.opts.MaxCreationAttempts, p.opts.RetryPause))
		select {
		case <-time.After(p.opts.RetryPause):
		case <-ctx.Done():
			return false
		}
	}

	err := zerr.Wrap(domain.ErrIdentityCreationFailed, "giving up on identity")
	err = zerr.With(err, "attempts", p.opts.MaxCreationAttempts)
	if lastErr != nil {
		err = zerr.With(err, "last_error", lastErr.Error())
	}
	p.logger.Error(err)
	return false
}

func (p *Pool) createAttempt(ctx context.Context) (*domain.Identity, error) {
	proxy, err := p.proxies.Next(ctx)
	if err != nil {
		return nil, err
	}
	return p.factory.Register(ctx, proxy)
}
