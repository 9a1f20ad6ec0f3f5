package app

import (
	"go.trai.ch/herd/internal/adapters/memstore"
	"go.trai.ch/herd/internal/adapters/sqlite"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

func openStore(cfg domain.StoreConfig) (ports.Store, error) {
	switch cfg.Driver {
	case domain.StoreMemory:
		return memstore.New(), nil
	case domain.StoreSQLite, "":
		return sqlite.Open(cfg.Path)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown store driver"), "driver", string(cfg.Driver))
	}
}
