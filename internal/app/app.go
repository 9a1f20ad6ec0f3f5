// Package app implements the application layer for herd.
package app

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"

	"go.trai.ch/herd/internal/adapters/httpapi"
	"go.trai.ch/herd/internal/adapters/proxy"
	"go.trai.ch/herd/internal/adapters/remote"
	"go.trai.ch/herd/internal/adapters/telemetry"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/cache"
	"go.trai.ch/herd/internal/engine/pool"
	"go.trai.ch/herd/internal/engine/query"
	"go.trai.ch/herd/internal/engine/race"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
	}
}

// ServeOptions configures Serve.
type ServeOptions struct {
	ConfigPath string
	// Listen overrides the configured listen address when set.
	Listen string
}

// IdentityOptions configures the identity management commands.
type IdentityOptions struct {
	ConfigPath string
	Count      int
}

// Serve loads the configuration, fills the identity pool and serves the HTTP
// API until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	shutdown := telemetry.Install(telemetry.NewLogProcessor(a.logger, cfg.Tracing.SlowSpan))
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	rt, err := a.build(cfg)
	if err != nil {
		return err
	}
	defer rt.close(a.logger)

	rt.cache.Reset(ctx)
	rt.pool.Initialize(ctx)
	a.logger.Info("identity pool ready")

	races := race.NewExecutor(rt.pool, cfg.Race.Fanout, a.logger, a.tracer)
	svc := query.NewService(rt.remote, rt.pool, rt.cache, races, a.logger, a.tracer)
	srv := httpapi.New(svc, a.logger, a.tracer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ctx, cfg.Listen) })
	g.Go(func() error { return rt.cache.Run(ctx) })
	g.Go(func() error { return rt.proxies.Run(ctx) })

	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "service stopped")
	}
	return nil
}

// ListIdentities returns up to opts.Count persisted identities, all of them
// when Count is not positive.
func (a *App) ListIdentities(ctx context.Context, opts IdentityOptions) ([]*domain.Identity, error) {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	ids, err := store.ListIdentities(ctx, opts.Count)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list identities")
	}
	return ids, nil
}

// CreateIdentities registers opts.Count new identities and persists them. It
// returns how many were created.
func (a *App) CreateIdentities(ctx context.Context, opts IdentityOptions) (int, error) {
	if opts.Count <= 0 {
		return 0, nil
	}
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return 0, err
	}
	rt, err := a.build(cfg)
	if err != nil {
		return 0, err
	}
	defer rt.close(a.logger)

	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Pool.Workers, 1))
	for range opts.Count {
		g.Go(func() error {
			if rt.pool.CreateOne(gctx) {
				created.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(created.Load())
	if n == 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrIdentityCreationFailed, "no identity could be created"), "requested", opts.Count)
	}
	return n, nil
}

func (a *App) loadConfig(path string) (*domain.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}
	cfg, err := a.configLoader.Load(cwd, path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if js, ok := a.logger.(interface{ SetJSON(bool) }); ok && cfg.JSONLog {
		js.SetJSON(true)
	}
	return cfg, nil
}

// runtime holds the adapters and engines shared by the commands.
type runtime struct {
	store   ports.Store
	proxies *proxy.Source
	remote  *remote.Client
	pool    *pool.Pool
	cache   *cache.Cache
}

func (a *App) build(cfg *domain.Config) (*runtime, error) {
	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	proxies, err := proxy.New(cfg.Proxy, &http.Client{Timeout: cfg.Remote.Timeout}, a.logger)
	if err != nil {
		_ = store.Close()
		return nil, zerr.Wrap(err, "failed to set up proxies")
	}

	client := remote.New(cfg.Remote, a.logger)
	return &runtime{
		store:   store,
		proxies: proxies,
		remote:  client,
		pool:    pool.New(client, store, proxies, a.logger, a.tracer, pool.OptionsFrom(cfg.Pool)),
		cache:   cache.New(store, a.logger, cache.OptionsFrom(cfg.Cache)),
	}, nil
}

func (rt *runtime) close(log ports.Logger) {
	if err := rt.store.Close(); err != nil {
		log.Error(zerr.Wrap(err, "failed to close store"))
	}
}
