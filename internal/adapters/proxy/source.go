package proxy

import (
	"context"
	"net/http"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source is a configured ProxySource together with its background work.
type Source struct {
	ports.ProxySource
	watch func(ctx context.Context) error
}

// Run performs the source's background work until ctx is done. Sources
// without background work block until cancellation.
func (s *Source) Run(ctx context.Context) error {
	if s.watch == nil {
		<-ctx.Done()
		return nil
	}
	return s.watch(ctx)
}

// New builds the proxy source selected by cfg.
func New(cfg domain.ProxyConfig, client *http.Client, logger ports.Logger) (*Source, error) {
	switch cfg.Mode {
	case domain.ProxyNone, "":
		return &Source{ProxySource: Direct{}}, nil
	case domain.ProxyFile:
		f, err := NewFile(cfg.File, logger)
		if err != nil {
			return nil, err
		}
		s := &Source{ProxySource: f}
		if cfg.Watch {
			s.watch = f.Watch
		}
		return s, nil
	case domain.ProxyManaged:
		return &Source{ProxySource: NewManaged(cfg.ManagedURL, cfg.BatchSize, client, logger)}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown proxy mode"), "mode", string(cfg.Mode))
	}
}
