package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/herd/internal/core/ports"
)

// LogProcessor implements sdktrace.SpanProcessor by reporting failed and slow
// spans to a Logger.
type LogProcessor struct {
	logger ports.Logger
	slow   time.Duration
}

// NewLogProcessor returns a LogProcessor. Spans lasting longer than slow are
// reported; zero disables slow-span reports.
func NewLogProcessor(logger ports.Logger, slow time.Duration) *LogProcessor {
	return &LogProcessor{logger: logger, slow: slow}
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd reports s when it failed or ran longer than the slow threshold.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		p.logger.Warn(fmt.Sprintf("%s failed after %s (%s): %s", s.Name(), took, failureKind(s), desc))
		return
	}
	if p.slow > 0 && took > p.slow {
		p.logger.Warn(fmt.Sprintf("%s took %s", s.Name(), took))
	}
}

// ForceFlush does nothing.
func (p *LogProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(_ context.Context) error {
	return nil
}

func failureKind(s sdktrace.ReadOnlySpan) string {
	for _, kv := range s.Attributes() {
		if kv.Key == failureKindKey {
			return kv.Value.AsString()
		}
	}
	return "unexpected"
}
