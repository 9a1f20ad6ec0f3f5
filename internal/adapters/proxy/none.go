package proxy

import (
	"context"

	"go.trai.ch/herd/internal/core/domain"
)

// Direct is the ProxySource used when proxying is disabled.
type Direct struct{}

// Next always returns nil, meaning a direct connection.
func (Direct) Next(context.Context) (*domain.Proxy, error) {
	return nil, nil
}
