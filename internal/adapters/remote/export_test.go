package remote

import (
	"net/http"

	"go.trai.ch/herd/internal/core/domain"
)

// HTTPClient exposes the per-proxy client lookup for tests.
func HTTPClient(c *Client, p *domain.Proxy) (*http.Client, error) {
	return c.httpClient(p)
}

// TransportCount reports how many per-proxy clients are cached.
func TransportCount(c *Client) int {
	return c.clients.Len()
}
