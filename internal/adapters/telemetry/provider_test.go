package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/herd/internal/adapters/telemetry"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
)

func TestOTelTracer_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	shutdown := telemetry.Install(sr)
	defer func() { _ = shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(context.Background(), "race.attempt", ports.WithAttribute("attempt", 2))
	span.SetAttribute("identity", "dev-1")
	span.SetAttribute("ambiguous", true)
	span.SetAttribute("pages", []string{"0", "20"})
	span.SetAttribute("other", struct{ A int }{A: 1})
	_, err := span.Write([]byte("rebound proxy"))
	require.NoError(t, err)
	span.RecordError(domain.NewRemoteError(domain.FailureChallenge, "profile", errors.New("captcha")))
	span.RecordError(nil)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	got := ended[0]

	assert.Equal(t, "race.attempt", got.Name())
	assert.Contains(t, got.Attributes(), attribute.Int("attempt", 2))
	assert.Contains(t, got.Attributes(), attribute.String("identity", "dev-1"))
	assert.Contains(t, got.Attributes(), attribute.Bool("ambiguous", true))
	assert.Contains(t, got.Attributes(), attribute.StringSlice("pages", []string{"0", "20"}))
	assert.Contains(t, got.Attributes(), attribute.String("other", "{1}"))
	assert.Contains(t, got.Attributes(), attribute.String("failure.kind", "challenge"))
	assert.Equal(t, codes.Error, got.Status().Code)
	require.Len(t, got.Events(), 2)
	assert.Equal(t, "log", got.Events()[0].Name)
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := telemetry.NewNoOpTracer().Start(ctx, "noop")
	assert.Equal(t, ctx, gotCtx)

	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("x"))
	span.End()
}
