package race_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/core/ports/mocks"
	"go.trai.ch/herd/internal/engine/race"
	"go.uber.org/mock/gomock"
)

// roundRobin hands out identities named id-1..id-n in order.
type roundRobin struct {
	mu   sync.Mutex
	ids  []*domain.Identity
	next int
	err  error
}

func newRoundRobin(n int) *roundRobin {
	r := &roundRobin{}
	for i := 1; i <= n; i++ {
		r.ids = append(r.ids, domain.NewIdentity(fmt.Sprintf("id-%d", i), nil, time.Time{}, nil))
	}
	return r
}

func (r *roundRobin) Checkout(_ context.Context, _ bool) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	id := r.ids[r.next%len(r.ids)]
	r.next++
	return id, nil
}

type profile struct {
	name   string
	secret bool
}

func isSecret(p profile) bool { return p.secret }

func newExecutor(t *testing.T, ids race.Checkouter, fanout int) *race.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	return race.NewExecutor(ids, fanout, logger, tracer)
}

// step scripts what the attempt holding a given identity does.
type step struct {
	after   time.Duration
	outcome race.Outcome[profile]
}

func scripted(steps map[string]step, finished *atomic.Int32) race.Operation[profile] {
	return func(_ context.Context, id *domain.Identity) race.Outcome[profile] {
		s := steps[id.ID]
		time.Sleep(s.after)
		if finished != nil {
			finished.Add(1)
		}
		return s.outcome
	}
}

func TestSubmit_SecondAmbiguousWins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(4), 4)
		steps := map[string]step{
			"id-1": {after: 3 * time.Second, outcome: race.NoValue[profile]()},
			"id-2": {after: 1 * time.Second, outcome: race.Value(profile{name: "from-2", secret: true})},
			"id-3": {after: 3 * time.Second, outcome: race.NoValue[profile]()},
			"id-4": {after: 2 * time.Second, outcome: race.Value(profile{name: "from-4", secret: true})},
		}

		got, err := race.Submit(t.Context(), e, "profile", scripted(steps, nil), race.ConfirmAmbiguous(isSecret))

		require.NoError(t, err)
		assert.Equal(t, "from-4", got.name)
	})
}

func TestSubmit_NonAmbiguousReturnsImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(4), 4)
		var finished atomic.Int32
		steps := map[string]step{
			"id-1": {after: 1 * time.Second, outcome: race.NoValue[profile]()},
			"id-2": {after: 10 * time.Second, outcome: race.Value(profile{name: "late"})},
			"id-3": {after: 2 * time.Second, outcome: race.Value(profile{name: "winner"})},
			"id-4": {after: 10 * time.Second, outcome: race.NoValue[profile]()},
		}

		start := time.Now()
		got, err := race.Submit(t.Context(), e, "profile", scripted(steps, &finished), race.ConfirmAmbiguous(isSecret))

		require.NoError(t, err)
		assert.Equal(t, "winner", got.name)
		assert.Equal(t, 2*time.Second, time.Since(start))
		assert.Equal(t, int32(2), finished.Load())

		// Losers are not cancelled and still run to completion.
		time.Sleep(10 * time.Second)
		synctest.Wait()
		assert.Equal(t, int32(4), finished.Load())
	})
}

func TestSubmit_NonAmbiguousBeatsPendingAmbiguous(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(4), 4)
		steps := map[string]step{
			"id-1": {after: 1 * time.Second, outcome: race.Value(profile{name: "restricted", secret: true})},
			"id-2": {after: 2 * time.Second, outcome: race.Value(profile{name: "public"})},
			"id-3": {after: 3 * time.Second, outcome: race.Value(profile{name: "restricted-again", secret: true})},
			"id-4": {after: 4 * time.Second, outcome: race.NoValue[profile]()},
		}

		got, err := race.Submit(t.Context(), e, "profile", scripted(steps, nil), race.ConfirmAmbiguous(isSecret))

		require.NoError(t, err)
		assert.Equal(t, "public", got.name)
	})
}

func TestSubmit_SingleAmbiguousIsNotFound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(4), 4)
		steps := map[string]step{
			"id-1": {after: 1 * time.Second, outcome: race.Value(profile{name: "restricted", secret: true})},
			"id-2": {after: 2 * time.Second, outcome: race.NoValue[profile]()},
			"id-3": {after: 2 * time.Second, outcome: race.NoValue[profile]()},
			"id-4": {after: 3 * time.Second, outcome: race.Failed[profile](errors.New("decode"))},
		}

		_, err := race.Submit(t.Context(), e, "profile", scripted(steps, nil), race.ConfirmAmbiguous(isSecret))

		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubmit_FirstValuePolicy(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(4), 4)
		steps := map[string]step{
			"id-1": {after: 3 * time.Second, outcome: race.Value(profile{name: "third"})},
			"id-2": {after: 2 * time.Second, outcome: race.Value(profile{name: "second", secret: true})},
			"id-3": {after: 4 * time.Second, outcome: race.Value(profile{name: "fourth"})},
			"id-4": {after: 1 * time.Second, outcome: race.NoValue[profile]()},
		}

		got, err := race.Submit(t.Context(), e, "post", scripted(steps, nil), race.FirstValue[profile]())

		require.NoError(t, err)
		assert.Equal(t, "second", got.name)
	})
}

func TestSubmit_AllUnexpectedIsExhausted(t *testing.T) {
	e := newExecutor(t, newRoundRobin(2), 4)
	op := func(_ context.Context, _ *domain.Identity) race.Outcome[profile] {
		return race.Failed[profile](errors.New("unclassified"))
	}

	_, err := race.Submit(context.Background(), e, "profile", op, race.FirstValue[profile]())

	require.ErrorIs(t, err, domain.ErrExhausted)
}

func TestSubmit_MixedFailuresIsNotFound(t *testing.T) {
	e := newExecutor(t, newRoundRobin(4), 4)
	op := func(_ context.Context, id *domain.Identity) race.Outcome[profile] {
		if id.ID == "id-3" {
			return race.NoValue[profile]()
		}
		return race.Failed[profile](errors.New("unclassified"))
	}

	_, err := race.Submit(context.Background(), e, "profile", op, race.FirstValue[profile]())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_ZeroFanoutIsNotFound(t *testing.T) {
	e := newExecutor(t, newRoundRobin(1), 0)
	called := false
	op := func(_ context.Context, _ *domain.Identity) race.Outcome[profile] {
		called = true
		return race.Value(profile{})
	}

	_, err := race.Submit(context.Background(), e, "profile", op, race.FirstValue[profile]())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
}

func TestSubmit_EmptyPoolIsExhausted(t *testing.T) {
	ids := newRoundRobin(1)
	ids.err = domain.ErrPoolEmpty
	e := newExecutor(t, ids, 4)
	op := func(_ context.Context, _ *domain.Identity) race.Outcome[profile] {
		t.Error("operation must not run without an identity")
		return race.NoValue[profile]()
	}

	_, err := race.Submit(context.Background(), e, "profile", op, race.FirstValue[profile]())

	require.ErrorIs(t, err, domain.ErrExhausted)
}

func TestSubmit_PanicCountsAsUnexpected(t *testing.T) {
	e := newExecutor(t, newRoundRobin(1), 1)
	op := func(_ context.Context, _ *domain.Identity) race.Outcome[profile] {
		panic("broken decoder")
	}

	_, err := race.Submit(context.Background(), e, "profile", op, race.FirstValue[profile]())

	require.ErrorIs(t, err, domain.ErrExhausted)
}

func TestSubmit_AnyNonAmbiguousValueWins(t *testing.T) {
	for k := 1; k <= 6; k++ {
		for winner := 1; winner <= k; winner++ {
			t.Run(fmt.Sprintf("k=%d/winner=%d", k, winner), func(t *testing.T) {
				synctest.Test(t, func(t *testing.T) {
					e := newExecutor(t, newRoundRobin(k), k)
					op := func(_ context.Context, id *domain.Identity) race.Outcome[profile] {
						var n int
						_, _ = fmt.Sscanf(id.ID, "id-%d", &n)
						time.Sleep(time.Duration(n) * time.Second)
						switch {
						case n == winner:
							return race.Value(profile{name: id.ID})
						case n == 1:
							return race.Value(profile{name: id.ID, secret: true})
						case n%3 == 0:
							return race.Failed[profile](errors.New("unexpected"))
						default:
							return race.NoValue[profile]()
						}
					}

					got, err := race.Submit(t.Context(), e, "profile", op, race.ConfirmAmbiguous(isSecret))

					require.NoError(t, err)
					assert.Equal(t, fmt.Sprintf("id-%d", winner), got.name)
					assert.False(t, got.secret)
				})
			})
		}
	}
}

func TestSubmit_CallerCancellationStopsWaitOnly(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := newExecutor(t, newRoundRobin(2), 2)
		var finished atomic.Int32
		op := func(ctx context.Context, _ *domain.Identity) race.Outcome[profile] {
			time.Sleep(5 * time.Second)
			if ctx.Err() == nil {
				finished.Add(1)
			}
			return race.NoValue[profile]()
		}

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(time.Second)
			cancel()
		}()

		_, err := race.Submit(ctx, e, "profile", op, race.FirstValue[profile]())
		require.ErrorIs(t, err, context.Canceled)

		time.Sleep(5 * time.Second)
		synctest.Wait()
		assert.Equal(t, int32(2), finished.Load())
	})
}
