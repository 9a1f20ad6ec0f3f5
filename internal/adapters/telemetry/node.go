package telemetry

import (
	"context"
	"os"
	"strconv"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// envSDKDisabled is the standard OpenTelemetry switch for turning tracing off.
const envSDKDisabled = "OTEL_SDK_DISABLED"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			if disabled, _ := strconv.ParseBool(os.Getenv(envSDKDisabled)); disabled {
				return NewNoOpTracer(), nil
			}
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}
