package app_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/telemetry"
	"go.trai.ch/herd/internal/app"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newTestApp(t *testing.T, cfg *domain.Config) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), "").Return(cfg, nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	return app.New(loader, log, telemetry.NewNoOpTracer())
}

func registrationServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	var seq atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		n := seq.Add(1)
		_, _ = fmt.Fprintf(w, `{"device_id_str":"%d","install_id_str":"1"}`, 7300000000000000000+n)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *domain.Config {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Store = domain.StoreConfig{Driver: domain.StoreSQLite, Path: filepath.Join(t.TempDir(), "herd.db")}
	cfg.Remote.APIBaseURL = apiURL
	cfg.Remote.Timeout = 5 * time.Second
	cfg.Pool.MaxCreationAttempts = 1
	cfg.Pool.RetryPause = 0
	cfg.Pool.Workers = 2
	return &cfg
}

func TestApp_CreateThenListIdentities(t *testing.T) {
	srv := registrationServer(t, http.StatusOK)
	a := newTestApp(t, testConfig(t, srv.URL))

	n, err := a.CreateIdentities(t.Context(), app.IdentityOptions{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ids, err := a.ListIdentities(t.Context(), app.IdentityOptions{})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	for _, id := range ids {
		assert.NotEmpty(t, id.ID)
		assert.Nil(t, id.Proxy())
	}

	ids, err = a.ListIdentities(t.Context(), app.IdentityOptions{Count: 2})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestApp_CreateIdentities_AllFail(t *testing.T) {
	srv := registrationServer(t, http.StatusServiceUnavailable)
	a := newTestApp(t, testConfig(t, srv.URL))

	n, err := a.CreateIdentities(t.Context(), app.IdentityOptions{Count: 2})
	require.ErrorIs(t, err, domain.ErrIdentityCreationFailed)
	assert.Zero(t, n)
}

func TestApp_CreateIdentities_NothingRequested(t *testing.T) {
	a := newTestApp(t, testConfig(t, "http://unused.invalid"))

	n, err := a.CreateIdentities(t.Context(), app.IdentityOptions{Count: 0})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApp_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), "missing.yaml").
		Return(nil, zerr.Wrap(domain.ErrConfigNotFound, "stat failed"))
	log := mocks.NewMockLogger(ctrl)

	a := app.New(loader, log, telemetry.NewNoOpTracer())
	_, err := a.ListIdentities(t.Context(), app.IdentityOptions{ConfigPath: "missing.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "http://unused.invalid")
	cfg.Store.Driver = domain.StoreMemory
	cfg.Pool.Source = domain.SourceLoadExisting
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Serve(ctx, app.ServeOptions{Listen: "127.0.0.1:0"})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
