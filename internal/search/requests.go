package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultRequestTimeout bounds every remote lookup.
const DefaultRequestTimeout = 15 * time.Second

// ErrCanceled marks a lookup that was superseded or timed out. It is never
// shown to the viewer.
var ErrCanceled = errors.New("lookup canceled")

// IsCancellation reports whether err is an abort rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type OutcomeStatus string

const (
	StatusApplied  OutcomeStatus = "applied"
	StatusCanceled OutcomeStatus = "canceled"
	StatusFailed   OutcomeStatus = "failed"
)

// Outcome is the result of the latest request. Canceled outcomes carry the
// zero value and no error.
type Outcome[T any] struct {
	ID     uint64
	Status OutcomeStatus
	Value  T
	Err    error
}

// Sequencer issues strictly increasing request ids and only lets the newest
// request's response through. Issuing a request cancels the one in flight.
type Sequencer[T any] struct {
	mu      sync.Mutex
	timeout time.Duration
	latest  uint64
	cancel  context.CancelFunc
}

func NewSequencer[T any](timeout time.Duration) *Sequencer[T] {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Sequencer[T]{timeout: timeout}
}

// Do runs fetch as the newest request and blocks until it returns. The
// second return value is false when a newer request was issued meanwhile;
// the outcome must then be discarded, whatever it holds.
func (s *Sequencer[T]) Do(ctx context.Context, fetch func(ctx context.Context) (T, error)) (Outcome[T], bool) {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.latest++
	id := s.latest
	s.cancel = cancel
	s.mu.Unlock()

	value, err := fetch(reqCtx)

	s.mu.Lock()
	current := id == s.latest
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()

	if !current {
		return Outcome[T]{ID: id, Status: StatusCanceled}, false
	}

	switch {
	case err == nil:
		return Outcome[T]{ID: id, Status: StatusApplied, Value: value}, true
	case IsCancellation(err) || reqCtx.Err() != nil:
		var zero T
		return Outcome[T]{ID: id, Status: StatusCanceled, Value: zero}, true
	default:
		return Outcome[T]{ID: id, Status: StatusFailed, Err: err}, true
	}
}

// Latest is the most recently issued request id.
func (s *Sequencer[T]) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Cancel aborts the request in flight, if any, and invalidates it.
func (s *Sequencer[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.latest++
}
