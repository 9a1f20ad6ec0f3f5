// Package race runs one logical operation against several identities at once
// and settles on the first acceptable result.
package race

import (
	"context"
	"fmt"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultFanout is the number of parallel attempts per logical operation.
const DefaultFanout = 4

// Outcome is what a single attempt produced: a value, no value, or an
// unexpected error.
type Outcome[T any] struct {
	Value    T
	HasValue bool
	Err      error
}

// Value wraps v as a value-bearing outcome.
func Value[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, HasValue: true}
}

// NoValue is the outcome of an attempt that finished cleanly without a result,
// including attempts that hit a recoverable remote failure.
func NoValue[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Failed is the outcome of an attempt that hit an unexpected error.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// Operation is one attempt of a logical query on a checked-out identity.
type Operation[T any] func(ctx context.Context, id *domain.Identity) Outcome[T]

// Checkouter hands out identities for attempts.
type Checkouter interface {
	Checkout(ctx context.Context, proxyEnabled bool) (*domain.Identity, error)
}

// Executor launches racing attempts.
type Executor struct {
	identities Checkouter
	fanout     int
	logger     ports.Logger
	tracer     ports.Tracer
}

// NewExecutor creates an Executor running fanout attempts per submission.
func NewExecutor(identities Checkouter, fanout int, logger ports.Logger, tracer ports.Tracer) *Executor {
	return &Executor{
		identities: identities,
		fanout:     fanout,
		logger:     logger,
		tracer:     tracer,
	}
}

// Fanout returns the number of attempts per submission.
func (e *Executor) Fanout() int {
	return e.fanout
}

type result[T any] struct {
	attempt int
	outcome Outcome[T]
}

// Submit runs op on Fanout independently checked-out identities and returns the
// first value the policy accepts, consuming completions in arrival order.
//
// Attempts are never cancelled: they run on a context detached from ctx and
// their late results are discarded. If no value is accepted Submit returns
// domain.ErrNotFound, or domain.ErrExhausted when every attempt failed
// unexpectedly. Cancelling ctx only stops the wait.
func Submit[T any](ctx context.Context, e *Executor, name string, op Operation[T], policy Policy[T]) (T, error) {
	var zero T

	k := e.fanout
	if k <= 0 {
		return zero, zerr.With(zerr.Wrap(domain.ErrNotFound, "race has no attempts"), "race", name)
	}

	ctx, span := e.tracer.Start(ctx, "race."+name, ports.WithAttribute("fanout", k))
	defer span.End()

	attemptCtx := context.WithoutCancel(ctx)
	results := make(chan result[T], k)
	for i := 1; i <= k; i++ {
		go func() {
			results <- result[T]{attempt: i, outcome: runAttempt(attemptCtx, e, name, i, op)}
		}()
	}

	unexpected := 0
	for range k {
		var res result[T]
		select {
		case res = <-results:
		case <-ctx.Done():
			err := zerr.With(zerr.Wrap(ctx.Err(), "race abandoned by caller"), "race", name)
			span.RecordError(err)
			return zero, err
		}

		if res.outcome.HasValue {
			if policy.Accept(res.outcome.Value) {
				span.SetAttribute("winner", res.attempt)
				return res.outcome.Value, nil
			}
			continue
		}
		if res.outcome.Err != nil {
			unexpected++
		}
	}

	var err error
	if unexpected == k {
		err = zerr.Wrap(domain.ErrExhausted, "every attempt failed unexpectedly")
	} else {
		err = zerr.Wrap(domain.ErrNotFound, "no attempt produced an accepted value")
	}
	err = zerr.With(zerr.With(err, "race", name), "fanout", k)
	span.RecordError(err)
	return zero, err
}

func runAttempt[T any](ctx context.Context, e *Executor, name string, n int, op Operation[T]) (out Outcome[T]) {
	ctx, span := e.tracer.Start(ctx, "race.attempt",
		ports.WithAttribute("race", name),
		ports.WithAttribute("attempt", n),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(zerr.New("attempt panicked"), "panic", fmt.Sprint(r))
			e.logger.Error(err)
			span.RecordError(err)
			out = Failed[T](err)
		}
	}()

	id, err := e.identities.Checkout(ctx, true)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "checkout failed"), "attempt", n)
		e.logger.Error(err)
		span.RecordError(err)
		return Failed[T](err)
	}
	span.SetAttribute("identity", id.ID)

	out = op(ctx, id)
	if out.Err != nil {
		span.RecordError(out.Err)
	}
	return out
}
