package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/config"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	mockLogger := mocks.NewMockLogger(gomock.NewController(t))
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, `
listen: 127.0.0.1:8080
log:
  json: true
pool:
  size: 5
  source: load-existing
  refresh_interval: 30m
  retry_pause: 1s
race:
  fanout: 6
cache:
  enabled: false
  ttl: 10m
store:
  driver: sqlite
  path: state/herd.db
proxy:
  mode: file
  file: proxies.txt
  watch: true
tracing:
  slow_span: 750ms
`)

	cfg, err := newLoader(t).Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.True(t, cfg.JSONLog)
	assert.Equal(t, 5, cfg.Pool.Size)
	assert.Equal(t, domain.SourceLoadExisting, cfg.Pool.Source)
	assert.Equal(t, 30*time.Minute, cfg.Pool.RefreshInterval)
	assert.Equal(t, time.Second, cfg.Pool.RetryPause)
	assert.Equal(t, 10, cfg.Pool.MaxCreationAttempts, "unset fields keep defaults")
	assert.Equal(t, 6, cfg.Race.Fanout)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SweepInterval)
	assert.Equal(t, filepath.Join(dir, "state", "herd.db"), cfg.Store.Path)
	assert.Equal(t, domain.ProxyFile, cfg.Proxy.Mode)
	assert.Equal(t, filepath.Join(dir, "proxies.txt"), cfg.Proxy.File)
	assert.True(t, cfg.Proxy.Watch)
	assert.Equal(t, 750*time.Millisecond, cfg.Tracing.SlowSpan)
}

func TestLoad_DiscoversFromParent(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "pool:\n  size: 7\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := newLoader(t).Load(nested, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pool.Size)
	assert.Equal(t, filepath.Join(root, ".herd", "herd.db"), cfg.Store.Path)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	dir := t.TempDir()
	cfg, err := config.NewLoader(mockLogger).Load(dir, "")
	require.NoError(t, err)

	want := domain.DefaultConfig()
	assert.Equal(t, want.Pool, cfg.Pool)
	assert.Equal(t, want.Cache, cfg.Cache)
	assert.Equal(t, filepath.Join(dir, ".herd", "herd.db"), cfg.Store.Path)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, "conf/custom.yaml", "listen: :9000\n")

	cfg, err := newLoader(t).Load(dir, "conf/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)

	_, err = newLoader(t).Load(dir, "missing.yaml")
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "listen: :7000\npool:\n  size: 3\n")

	t.Setenv(config.EnvListen, ":7100")
	t.Setenv(config.EnvPoolSize, "12")
	t.Setenv(config.EnvCaching, "false")
	t.Setenv(config.EnvStorePath, "/var/lib/herd/herd.db")
	t.Setenv(config.EnvProxyFile, "/etc/herd/proxies.txt")

	cfg, err := newLoader(t).Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Listen)
	assert.Equal(t, 12, cfg.Pool.Size)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "/var/lib/herd/herd.db", cfg.Store.Path)
	assert.Equal(t, domain.ProxyFile, cfg.Proxy.Mode)
	assert.Equal(t, "/etc/herd/proxies.txt", cfg.Proxy.File)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{name: "malformed yaml", content: "pool: [", wantErr: domain.ErrConfigParseFailed},
		{name: "bad duration", content: "cache:\n  ttl: soon\n", wantErr: domain.ErrInvalidConfig},
		{name: "unknown source", content: "pool:\n  source: borrow\n", wantErr: domain.ErrInvalidConfig},
		{name: "zero fanout", content: "race:\n  fanout: 0\n", wantErr: domain.ErrInvalidConfig},
		{name: "quorum above one", content: "pool:\n  quorum: 1.5\n", wantErr: domain.ErrInvalidConfig},
		{name: "file mode without file", content: "proxy:\n  mode: file\n", wantErr: domain.ErrInvalidConfig},
		{name: "managed mode without url", content: "proxy:\n  mode: managed\n", wantErr: domain.ErrInvalidConfig},
		{name: "negative slow span", content: "tracing:\n  slow_span: -1s\n", wantErr: domain.ErrInvalidConfig},
		{name: "unknown driver", content: "store:\n  driver: postgres\n", wantErr: domain.ErrInvalidConfig},
		{name: "bad pool size env", content: "", env: map[string]string{config.EnvPoolSize: "many"}, wantErr: domain.ErrInvalidConfig},
		{name: "bad caching env", content: "", env: map[string]string{config.EnvCaching: "maybe"}, wantErr: domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, domain.ConfigFileName, tt.content)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := newLoader(t).Load(dir, "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
