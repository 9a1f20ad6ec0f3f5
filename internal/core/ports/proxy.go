package ports

import (
	"context"

	"go.trai.ch/herd/internal/core/domain"
)

// ProxySource supplies egress proxies on demand.
//
//go:generate mockgen -source=proxy.go -destination=mocks/mock_proxy.go -package=mocks
type ProxySource interface {
	// Next returns the proxy the next caller should use. A nil proxy means a
	// direct connection.
	Next(ctx context.Context) (*domain.Proxy, error)
}
