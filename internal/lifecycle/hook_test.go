package lifecycle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitSettled[T any](t *testing.T, h *Hook[T]) Snapshot[T] {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hook did not settle")
	}
	return h.Snapshot()
}

func TestHook_StartsIdle(t *testing.T) {
	h := New[int]()
	s := h.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Zero(t, s.Elapsed)
	assert.Empty(t, s.Message)
}

func TestHook_Success(t *testing.T) {
	h := New[string]()
	var got atomic.Value
	h.OnSuccess(func(v string) { got.Store(v) })
	h.OnError(func(*domain.Error) { t.Error("OnError must not run on success") })

	ok := h.Submit(context.Background(), func(ctx context.Context) result.Result[string] {
		return result.Ok("done")
	})
	require.True(t, ok)

	s := waitSettled(t, h)
	assert.Equal(t, StateSuccess, s.State)
	assert.Equal(t, "done", s.Value)
	assert.Nil(t, s.Err)
	assert.Eventually(t, func() bool { return got.Load() == "done" }, time.Second, 5*time.Millisecond)
}

func TestHook_Error(t *testing.T) {
	h := New[int]()
	errs := make(chan *domain.Error, 1)
	h.OnError(func(e *domain.Error) { errs <- e })

	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		return result.Fail[int](domain.NewUpstreamError("collaborator down", nil))
	})

	s := waitSettled(t, h)
	assert.Equal(t, StateError, s.State)
	require.NotNil(t, s.Err)
	assert.Equal(t, domain.CodeUpstream, s.Err.Code)

	select {
	case e := <-errs:
		assert.Equal(t, "collaborator down", e.Message)
	case <-time.After(time.Second):
		t.Fatal("OnError was not called")
	}
}

func TestHook_SubmitWhileLoadingIsIgnored(t *testing.T) {
	h := New[int]()
	release := make(chan struct{})
	var calls int32

	fn := func(ctx context.Context) result.Result[int] {
		atomic.AddInt32(&calls, 1)
		<-release
		return result.Ok(1)
	}

	require.True(t, h.Submit(context.Background(), fn))
	assert.False(t, h.Submit(context.Background(), fn))
	assert.Equal(t, StateLoading, h.Snapshot().State)

	close(release)
	waitSettled(t, h)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// A settled hook accepts the next submission.
	assert.True(t, h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		return result.Ok(2)
	}))
	assert.Equal(t, 2, waitSettled(t, h).Value)
}

func TestHook_CancelledResultIsNotAnError(t *testing.T) {
	h := New[int]()
	h.OnError(func(*domain.Error) { t.Error("OnError must not run for a cancellation") })

	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		return result.Fail[int](domain.NewCancelledError(context.Canceled))
	})

	s := waitSettled(t, h)
	assert.Equal(t, StateCancelled, s.State)
	assert.Nil(t, s.Err)
}

func TestHook_CancelDiscardsLateResult(t *testing.T) {
	h := New[domain.Tallies]()
	var recorded int32
	h.OnSuccess(func(domain.Tallies) { atomic.AddInt32(&recorded, 1) })

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	h.Submit(context.Background(), func(ctx context.Context) result.Result[domain.Tallies] {
		defer close(finished)
		close(started)
		<-release
		// Ignores ctx and reports success anyway.
		return result.Ok(domain.Tallies{Verified: 3})
	})

	<-started
	assert.True(t, h.Cancel())
	close(release)
	<-finished

	time.Sleep(20 * time.Millisecond)
	s := h.Snapshot()
	assert.Equal(t, StateCancelled, s.State)
	assert.Zero(t, s.Value)
	assert.Equal(t, int32(0), atomic.LoadInt32(&recorded), "cancellation never triggers the ranking record")
}

func TestHook_CancelPropagatesToContext(t *testing.T) {
	h := New[int]()
	observed := make(chan error, 1)
	started := make(chan struct{})
	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		close(started)
		<-ctx.Done()
		observed <- ctx.Err()
		return result.Fail[int](domain.NewCancelledError(ctx.Err()))
	})

	<-started
	h.Cancel()
	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("request context was not cancelled")
	}
	assert.False(t, h.Cancel(), "cancelling a settled hook is a no-op")
}

func TestHook_Teardown(t *testing.T) {
	h := New[int]()
	var calls int32
	h.OnSuccess(func(int) { atomic.AddInt32(&calls, 1) })
	h.OnError(func(*domain.Error) { atomic.AddInt32(&calls, 1) })

	release := make(chan struct{})
	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		<-release
		return result.Ok(1)
	})

	h.Teardown()
	close(release)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StateCancelled, h.Snapshot().State)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		return result.Ok(2)
	}), "a torn-down hook accepts no work")
}

func TestHook_Reset(t *testing.T) {
	h := New[int]()
	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		return result.Ok(7)
	})
	waitSettled(t, h)

	h.Reset()
	s := h.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Zero(t, s.Value)
	assert.Zero(t, s.Elapsed)
}

func TestHook_ResetWhileLoadingHasNoEffect(t *testing.T) {
	h := New[int]()
	release := make(chan struct{})
	defer close(release)
	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		<-release
		return result.Ok(1)
	})

	h.Reset()
	assert.Equal(t, StateLoading, h.Snapshot().State)
}

func TestHook_ElapsedAndMessages(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var clock atomic.Int64
	clock.Store(now.UnixNano())

	h := New[int]("one", "two", "three")
	h.now = func() time.Time { return time.Unix(0, clock.Load()) }

	release := make(chan struct{})
	h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
		<-release
		return result.Ok(1)
	})

	s := h.Snapshot()
	assert.Equal(t, "one", s.Message)
	assert.Zero(t, s.Elapsed)

	clock.Add(int64(1500 * time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, h.Snapshot().Elapsed)

	assert.Equal(t, "two", h.Tick())
	assert.Equal(t, "three", h.Tick())
	assert.Equal(t, "one", h.Tick())

	clock.Add(int64(time.Second))
	close(release)
	s = waitSettled(t, h)
	assert.Equal(t, 2500*time.Millisecond, s.Elapsed)
	assert.Empty(t, s.Message)
	assert.Empty(t, h.Tick())

	// Elapsed is frozen once settled.
	clock.Add(int64(time.Minute))
	assert.Equal(t, 2500*time.Millisecond, h.Snapshot().Elapsed)
}

func TestHook_EachSubmissionPicksTheNextMessage(t *testing.T) {
	h := New[int]("a", "b")
	var seen []string
	for i := 0; i < 3; i++ {
		release := make(chan struct{})
		h.Submit(context.Background(), func(ctx context.Context) result.Result[int] {
			<-release
			return result.Ok(i)
		})
		seen = append(seen, h.Snapshot().Message)
		close(release)
		waitSettled(t, h)
	}
	assert.Equal(t, []string{"a", "b", "a"}, seen)
}
