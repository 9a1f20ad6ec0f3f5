package domain

import "time"

// ConfigFileName is the name of the configuration file looked up from the working directory upwards.
const ConfigFileName = "herd.yaml"

// IdentitySourceMode selects how the identity pool is populated.
type IdentitySourceMode string

const (
	// SourceCreateNew registers brand new identities with the remote platform.
	SourceCreateNew IdentitySourceMode = "create-new"
	// SourceLoadExisting reuses identities persisted by earlier runs.
	SourceLoadExisting IdentitySourceMode = "load-existing"
)

// ProxyMode selects the proxy source implementation.
type ProxyMode string

const (
	ProxyNone    ProxyMode = "none"
	ProxyFile    ProxyMode = "file"
	ProxyManaged ProxyMode = "managed"
)

// StoreDriver selects the persistent store implementation.
type StoreDriver string

const (
	StoreSQLite StoreDriver = "sqlite"
	StoreMemory StoreDriver = "memory"
)

// Config is the validated runtime configuration.
type Config struct {
	Listen string
	JSONLog bool

	Pool   PoolConfig
	Race   RaceConfig
	Cache  CacheConfig
	Store  StoreConfig
	Proxy  ProxyConfig
	Remote RemoteConfig

	Tracing TracingConfig
}

// TracingConfig configures span reporting.
type TracingConfig struct {
	// SlowSpan is the duration above which a finished span is logged. Zero disables it.
	SlowSpan time.Duration
}

// PoolConfig configures the identity pool.
type PoolConfig struct {
	Size                int
	Source              IdentitySourceMode
	RefreshInterval     time.Duration
	MaxCreationAttempts int
	RetryPause          time.Duration
	Quorum              float64
	Workers             int
}

// RaceConfig configures the racing executor.
type RaceConfig struct {
	Fanout int
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Enabled       bool
	TTL           time.Duration
	SweepInterval time.Duration
	ResetOnStart  bool
}

// StoreConfig configures the persistent store.
type StoreConfig struct {
	Driver StoreDriver
	Path   string
}

// ProxyConfig configures the proxy source.
type ProxyConfig struct {
	Mode       ProxyMode
	File       string
	Watch      bool
	ManagedURL string
	BatchSize  int
}

// RemoteConfig configures the remote platform client.
type RemoteConfig struct {
	APIBaseURL string
	WebBaseURL string
	UserAgent  string
	Timeout    time.Duration
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Listen: "0.0.0.0:5001",
		Pool: PoolConfig{
			Size:                30,
			Source:              SourceCreateNew,
			RefreshInterval:     60 * time.Minute,
			MaxCreationAttempts: 10,
			RetryPause:          3 * time.Second,
			Quorum:              0.7,
			Workers:             10,
		},
		Race: RaceConfig{Fanout: 4},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           15 * time.Minute,
			SweepInterval: 5 * time.Minute,
			ResetOnStart:  true,
		},
		Store: StoreConfig{
			Driver: StoreSQLite,
			Path:   ".herd/herd.db",
		},
		Proxy: ProxyConfig{
			Mode:      ProxyNone,
			BatchSize: 50,
		},
		Remote: RemoteConfig{
			APIBaseURL: "https://api16-normal-c-useast1a.tiktokv.com",
			WebBaseURL: "https://www.tiktok.com",
			UserAgent:  "Mozilla/5.0 (Linux; Android 9; Mi A1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.115 Mobile Safari/537.36",
			Timeout:    10 * time.Second,
		},
		Tracing: TracingConfig{SlowSpan: 5 * time.Second},
	}
}
