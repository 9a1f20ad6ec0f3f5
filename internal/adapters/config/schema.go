package config

// File is the on-disk layout of herd.yaml. Unset fields keep their defaults.
type File struct {
	Listen string    `yaml:"listen"`
	Log    LogDTO    `yaml:"log"`
	Pool   PoolDTO   `yaml:"pool"`
	Race   RaceDTO   `yaml:"race"`
	Cache  CacheDTO  `yaml:"cache"`
	Store  StoreDTO  `yaml:"store"`
	Proxy  ProxyDTO  `yaml:"proxy"`
	Remote RemoteDTO `yaml:"remote"`

	Tracing TracingDTO `yaml:"tracing"`
}

// TracingDTO configures span reporting.
type TracingDTO struct {
	SlowSpan string `yaml:"slow_span"`
}

// LogDTO configures log output.
type LogDTO struct {
	JSON *bool `yaml:"json"`
}

// PoolDTO configures the identity pool.
type PoolDTO struct {
	Size                *int     `yaml:"size"`
	Source              string   `yaml:"source"`
	RefreshInterval     string   `yaml:"refresh_interval"`
	MaxCreationAttempts *int     `yaml:"max_creation_attempts"`
	RetryPause          string   `yaml:"retry_pause"`
	Quorum              *float64 `yaml:"quorum"`
	Workers             *int     `yaml:"workers"`
}

// RaceDTO configures the racing executor.
type RaceDTO struct {
	Fanout *int `yaml:"fanout"`
}

// CacheDTO configures the result cache.
type CacheDTO struct {
	Enabled       *bool  `yaml:"enabled"`
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
	ResetOnStart  *bool  `yaml:"reset_on_start"`
}

// StoreDTO configures the persistent store.
type StoreDTO struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ProxyDTO configures the proxy source.
type ProxyDTO struct {
	Mode       string `yaml:"mode"`
	File       string `yaml:"file"`
	Watch      *bool  `yaml:"watch"`
	ManagedURL string `yaml:"managed_url"`
	BatchSize  *int   `yaml:"batch_size"`
}

// RemoteDTO configures the remote platform client.
type RemoteDTO struct {
	APIBaseURL string `yaml:"api_base_url"`
	WebBaseURL string `yaml:"web_base_url"`
	UserAgent  string `yaml:"user_agent"`
	Timeout    string `yaml:"timeout"`
}
