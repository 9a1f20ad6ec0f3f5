package config

import (
	"os"
	"strconv"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables overriding the file configuration.
const (
	EnvListen    = "HERD_LISTEN"
	EnvPoolSize  = "HERD_POOL_SIZE"
	EnvCaching   = "HERD_CACHING"
	EnvStorePath = "HERD_STORE_PATH"
	EnvProxyFile = "HERD_PROXY_FILE"
)

func applyEnv(cfg *domain.Config) error {
	if v, ok := os.LookupEnv(EnvListen); ok && v != "" {
		cfg.Listen = v
	}
	if v, ok := os.LookupEnv(EnvPoolSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "env", EnvPoolSize)
		}
		cfg.Pool.Size = n
	}
	if v, ok := os.LookupEnv(EnvCaching); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "env", EnvCaching)
		}
		cfg.Cache.Enabled = b
	}
	if v, ok := os.LookupEnv(EnvStorePath); ok && v != "" {
		cfg.Store.Path = v
	}
	if v, ok := os.LookupEnv(EnvProxyFile); ok && v != "" {
		cfg.Proxy.File = v
		if cfg.Proxy.Mode == domain.ProxyNone {
			cfg.Proxy.Mode = domain.ProxyFile
		}
	}
	return nil
}
