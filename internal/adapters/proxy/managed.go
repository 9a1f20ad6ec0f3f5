package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Managed fetches batches of proxies from a provider endpoint and hands each
// one out once. A new batch is requested when the current one is used up.
type Managed struct {
	endpoint  string
	batchSize int
	client    *http.Client
	logger    ports.Logger

	mu    sync.Mutex
	batch []*domain.Proxy
}

// NewManaged creates a Managed source. The endpoint receives a count query
// parameter and answers with one proxy entry per line.
func NewManaged(endpoint string, batchSize int, client *http.Client, logger ports.Logger) *Managed {
	if client == nil {
		client = http.DefaultClient
	}
	return &Managed{endpoint: endpoint, batchSize: batchSize, client: client, logger: logger}
}

// Next returns the next unused proxy, fetching a new batch if needed.
func (m *Managed) Next(ctx context.Context) (*domain.Proxy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.batch) == 0 {
		batch, err := m.fetch(ctx)
		if err != nil {
			return nil, err
		}
		m.batch = batch
	}
	p := m.batch[0]
	m.batch = m.batch[1:]
	return p, nil
}

func (m *Managed) fetch(ctx context.Context) ([]*domain.Proxy, error) {
	u, err := url.Parse(m.endpoint)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, err.Error()), "endpoint", m.endpoint)
	}
	q := u.Query()
	q.Set("count", strconv.Itoa(m.batchSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, err.Error()), "endpoint", m.endpoint)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, err.Error()), "endpoint", m.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(zerr.Wrap(domain.ErrProxySourceFailed, "unexpected provider status"), "status", resp.StatusCode)
	}

	proxies, errs := parseList(resp.Body)
	for _, err := range errs {
		m.logger.Warn(fmt.Sprintf("skipping proxy entry from provider: %v", err))
	}
	if len(proxies) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoProxies, "provider returned no proxies"), "endpoint", m.endpoint)
	}
	return proxies, nil
}
