// Package lifecycle tracks one client request at a time through
// idle, loading and a settled state, with cancellation and progress hints.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/result"
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateSuccess   State = "success"
	StateError     State = "error"
	StateCancelled State = "cancelled"
)

// DefaultMessages are shown while a verification is in flight.
var DefaultMessages = []string{
	"Extracting claims from the text...",
	"Searching for sources...",
	"Checking how trustworthy each source is...",
	"Weighing the evidence...",
	"Almost there...",
}

// Snapshot is a consistent view of a Hook.
type Snapshot[T any] struct {
	State   State
	Value   T
	Err     *domain.Error
	Message string
	Elapsed time.Duration
}

// Hook runs at most one request at a time. Callbacks run on the request's
// goroutine and must not call Teardown.
type Hook[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	err      *domain.Error
	started  time.Time
	finished time.Time
	messages []string
	msgIdx   int
	nextMsg  int
	gen      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	torn     bool

	// cbMu is held while a callback runs so Teardown can wait it out.
	cbMu      sync.Mutex
	onSuccess func(T)
	onError   func(*domain.Error)

	now func() time.Time
}

func New[T any](messages ...string) *Hook[T] {
	if len(messages) == 0 {
		messages = DefaultMessages
	}
	closed := make(chan struct{})
	close(closed)
	return &Hook[T]{
		state:    StateIdle,
		messages: messages,
		done:     closed,
		now:      time.Now,
	}
}

// OnSuccess registers fn to run after a successful request.
func (h *Hook[T]) OnSuccess(fn func(T)) {
	h.cbMu.Lock()
	h.onSuccess = fn
	h.cbMu.Unlock()
}

// OnError registers fn for failed requests. Cancellation is not an error
// and never reaches fn.
func (h *Hook[T]) OnError(fn func(*domain.Error)) {
	h.cbMu.Lock()
	h.onError = fn
	h.cbMu.Unlock()
}

// Submit starts fn unless a request is already loading or the hook has been
// torn down, in which case it returns false and does nothing.
func (h *Hook[T]) Submit(parent context.Context, fn func(ctx context.Context) result.Result[T]) bool {
	h.mu.Lock()
	if h.state == StateLoading || h.torn {
		h.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(parent)
	h.gen++
	gen := h.gen
	done := make(chan struct{})

	var zero T
	h.state = StateLoading
	h.value = zero
	h.err = nil
	h.started = h.now()
	h.finished = time.Time{}
	h.msgIdx = h.nextMsg % len(h.messages)
	h.nextMsg = h.msgIdx + 1
	h.cancel = cancel
	h.done = done
	h.mu.Unlock()

	go func() {
		r := fn(ctx)
		h.settle(gen, r)
	}()
	return true
}

func (h *Hook[T]) settle(gen uint64, r result.Result[T]) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()

	h.mu.Lock()
	if gen != h.gen || h.state != StateLoading {
		// Cancelled or superseded; the result is discarded.
		h.mu.Unlock()
		return
	}

	h.finished = h.now()
	h.cancel()
	var success func(T)
	var failure func(*domain.Error)
	v, ok := r.Value()
	switch {
	case ok:
		h.state = StateSuccess
		h.value = v
		success = h.onSuccess
	case r.Code() == domain.CodeCancelled:
		h.state = StateCancelled
	default:
		h.state = StateError
		h.err = r.Err()
		failure = h.onError
	}
	done := h.done
	torn := h.torn
	h.mu.Unlock()
	defer close(done)

	if torn {
		return
	}
	if success != nil {
		success(v)
	}
	if failure != nil {
		failure(r.Err())
	}
}

// Cancel aborts the in-flight request. The hook settles as cancelled at once
// and the request's eventual result is discarded.
func (h *Hook[T]) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelLocked()
}

func (h *Hook[T]) cancelLocked() bool {
	if h.state != StateLoading {
		return false
	}
	h.cancel()
	h.state = StateCancelled
	h.finished = h.now()
	close(h.done)
	return true
}

// Teardown cancels any in-flight request and disables the hook. When it
// returns no callback is running and none will run again.
func (h *Hook[T]) Teardown() {
	h.mu.Lock()
	h.torn = true
	h.cancelLocked()
	h.mu.Unlock()

	h.cbMu.Lock()
	h.onSuccess = nil
	h.onError = nil
	h.cbMu.Unlock()
}

// Reset returns a settled hook to idle. It has no effect while loading.
func (h *Hook[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateLoading {
		return
	}
	var zero T
	h.state = StateIdle
	h.value = zero
	h.err = nil
	h.started = time.Time{}
	h.finished = time.Time{}
}

// Tick advances the advisory message while loading and returns it.
func (h *Hook[T]) Tick() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateLoading {
		return ""
	}
	h.msgIdx = (h.msgIdx + 1) % len(h.messages)
	h.nextMsg = h.msgIdx + 1
	return h.messages[h.msgIdx]
}

// Done is closed when the current request settles, after any callback has
// returned.
func (h *Hook[T]) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

func (h *Hook[T]) Snapshot() Snapshot[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Snapshot[T]{State: h.state, Value: h.value, Err: h.err}
	switch h.state {
	case StateIdle:
	case StateLoading:
		s.Message = h.messages[h.msgIdx]
		s.Elapsed = h.now().Sub(h.started)
	default:
		s.Elapsed = h.finished.Sub(h.started)
	}
	return s
}
