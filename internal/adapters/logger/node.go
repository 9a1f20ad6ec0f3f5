package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// EnvFormat selects the log format before any configuration is read.
const EnvFormat = "HERD_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := &Logger{output: os.Stderr}
			l.SetJSON(os.Getenv(EnvFormat) == "json")
			return l, nil
		},
	})
}
