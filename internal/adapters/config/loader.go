// Package config provides the configuration loader for herd.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration. An explicit path must exist. Without one,
// herd.yaml is searched from cwd upwards; when none is found the defaults
// apply. Environment overrides are applied last.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	base := cwd

	if path == "" {
		found, ok := findConfiguration(cwd)
		if !ok {
			l.Logger.Warn("no " + domain.ConfigFileName + " found, using defaults")
		}
		path = found
	} else {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "path", path)
		}
	}

	if path != "" {
		var file File
		if err := readAndUnmarshalYAML(path, &file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		if err := apply(&cfg, &file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		base = filepath.Dir(path)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.Store.Path = resolvePath(base, cfg.Store.Path)
	cfg.Proxy.File = resolvePath(base, cfg.Proxy.File)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or given by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
	}
	return nil
}

func apply(cfg *domain.Config, f *File) error {
	setString(&cfg.Listen, f.Listen)
	setPtr(&cfg.JSONLog, f.Log.JSON)

	setPtr(&cfg.Pool.Size, f.Pool.Size)
	if f.Pool.Source != "" {
		cfg.Pool.Source = domain.IdentitySourceMode(f.Pool.Source)
	}
	setPtr(&cfg.Pool.MaxCreationAttempts, f.Pool.MaxCreationAttempts)
	setPtr(&cfg.Pool.Quorum, f.Pool.Quorum)
	setPtr(&cfg.Pool.Workers, f.Pool.Workers)

	setPtr(&cfg.Race.Fanout, f.Race.Fanout)

	setPtr(&cfg.Cache.Enabled, f.Cache.Enabled)
	setPtr(&cfg.Cache.ResetOnStart, f.Cache.ResetOnStart)

	if f.Store.Driver != "" {
		cfg.Store.Driver = domain.StoreDriver(f.Store.Driver)
	}
	setString(&cfg.Store.Path, f.Store.Path)

	if f.Proxy.Mode != "" {
		cfg.Proxy.Mode = domain.ProxyMode(f.Proxy.Mode)
	}
	setString(&cfg.Proxy.File, f.Proxy.File)
	setPtr(&cfg.Proxy.Watch, f.Proxy.Watch)
	setString(&cfg.Proxy.ManagedURL, f.Proxy.ManagedURL)
	setPtr(&cfg.Proxy.BatchSize, f.Proxy.BatchSize)

	setString(&cfg.Remote.APIBaseURL, f.Remote.APIBaseURL)
	setString(&cfg.Remote.WebBaseURL, f.Remote.WebBaseURL)
	setString(&cfg.Remote.UserAgent, f.Remote.UserAgent)

	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"pool.refresh_interval", f.Pool.RefreshInterval, &cfg.Pool.RefreshInterval},
		{"pool.retry_pause", f.Pool.RetryPause, &cfg.Pool.RetryPause},
		{"cache.ttl", f.Cache.TTL, &cfg.Cache.TTL},
		{"cache.sweep_interval", f.Cache.SweepInterval, &cfg.Cache.SweepInterval},
		{"remote.timeout", f.Remote.Timeout, &cfg.Remote.Timeout},
		{"tracing.slow_span", f.Tracing.SlowSpan, &cfg.Tracing.SlowSpan},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "field", d.field)
		}
		*d.dst = v
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func resolvePath(base, p string) string {
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func validate(cfg *domain.Config) error {
	var errs []error
	invalid := func(field, msg string, value any) {
		errs = append(errs, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), "field", field), "value", value))
	}

	if cfg.Listen == "" {
		invalid("listen", "listen address is empty", cfg.Listen)
	}
	if cfg.Pool.Size <= 0 {
		invalid("pool.size", "pool size must be positive", cfg.Pool.Size)
	}
	switch cfg.Pool.Source {
	case domain.SourceCreateNew, domain.SourceLoadExisting:
	default:
		invalid("pool.source", "unknown identity source", cfg.Pool.Source)
	}
	if cfg.Pool.MaxCreationAttempts <= 0 {
		invalid("pool.max_creation_attempts", "must be positive", cfg.Pool.MaxCreationAttempts)
	}
	if cfg.Pool.Quorum <= 0 || cfg.Pool.Quorum > 1 {
		invalid("pool.quorum", "quorum must be in (0, 1]", cfg.Pool.Quorum)
	}
	if cfg.Pool.Workers <= 0 {
		invalid("pool.workers", "must be positive", cfg.Pool.Workers)
	}
	if cfg.Race.Fanout <= 0 {
		invalid("race.fanout", "fanout must be positive", cfg.Race.Fanout)
	}
	if cfg.Cache.TTL <= 0 {
		invalid("cache.ttl", "ttl must be positive", cfg.Cache.TTL)
	}
	if cfg.Cache.SweepInterval <= 0 {
		invalid("cache.sweep_interval", "sweep interval must be positive", cfg.Cache.SweepInterval)
	}
	switch cfg.Store.Driver {
	case domain.StoreSQLite:
		if cfg.Store.Path == "" {
			invalid("store.path", "sqlite store needs a path", cfg.Store.Path)
		}
	case domain.StoreMemory:
	default:
		invalid("store.driver", "unknown store driver", cfg.Store.Driver)
	}
	switch cfg.Proxy.Mode {
	case domain.ProxyNone:
	case domain.ProxyFile:
		if cfg.Proxy.File == "" {
			invalid("proxy.file", "file proxy mode needs a file", cfg.Proxy.File)
		}
	case domain.ProxyManaged:
		if cfg.Proxy.ManagedURL == "" {
			invalid("proxy.managed_url", "managed proxy mode needs a url", cfg.Proxy.ManagedURL)
		}
		if cfg.Proxy.BatchSize <= 0 {
			invalid("proxy.batch_size", "must be positive", cfg.Proxy.BatchSize)
		}
	default:
		invalid("proxy.mode", "unknown proxy mode", cfg.Proxy.Mode)
	}
	if cfg.Remote.Timeout <= 0 {
		invalid("remote.timeout", "timeout must be positive", cfg.Remote.Timeout)
	}
	if cfg.Tracing.SlowSpan < 0 {
		invalid("tracing.slow_span", "must not be negative", cfg.Tracing.SlowSpan)
	}

	return errors.Join(errs...)
}
