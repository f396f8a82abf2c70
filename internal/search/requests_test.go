package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_AppliesResult(t *testing.T) {
	s := NewSequencer[[]string](time.Second)

	out, current := s.Do(context.Background(), func(ctx context.Context) ([]string, error) {
		return []string{"Pikachu"}, nil
	})

	assert.True(t, current)
	assert.Equal(t, StatusApplied, out.Status)
	assert.Equal(t, []string{"Pikachu"}, out.Value)
	assert.Equal(t, uint64(1), out.ID)
}

func TestSequencer_IDsStrictlyIncrease(t *testing.T) {
	s := NewSequencer[int](time.Second)
	var last uint64
	for i := 0; i < 5; i++ {
		out, _ := s.Do(context.Background(), func(ctx context.Context) (int, error) { return i, nil })
		assert.Greater(t, out.ID, last)
		last = out.ID
	}
	assert.Equal(t, last, s.Latest())
}

// A slow first response arriving after a fast second one must not be applied.
func TestSequencer_StaleResponseDiscarded(t *testing.T) {
	s := NewSequencer[string](time.Second)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	type result struct {
		out     Outcome[string]
		current bool
	}
	firstDone := make(chan result, 1)

	go func() {
		out, current := s.Do(context.Background(), func(ctx context.Context) (string, error) {
			close(firstStarted)
			<-releaseFirst
			return "A", nil
		})
		firstDone <- result{out, current}
	}()

	<-firstStarted
	second, current := s.Do(context.Background(), func(ctx context.Context) (string, error) {
		return "B", nil
	})
	close(releaseFirst)

	require.True(t, current)
	assert.Equal(t, StatusApplied, second.Status)
	assert.Equal(t, "B", second.Value)

	first := <-firstDone
	assert.False(t, first.current)
	assert.Equal(t, StatusCanceled, first.out.Status)
	assert.Less(t, first.out.ID, second.ID)
}

func TestSequencer_SupersedeCancelsInFlight(t *testing.T) {
	s := NewSequencer[string](time.Second)

	started := make(chan struct{})
	sawCancel := make(chan error, 1)
	go func() {
		s.Do(context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			sawCancel <- ctx.Err()
			return "", ctx.Err()
		})
	}()

	<-started
	s.Do(context.Background(), func(ctx context.Context) (string, error) { return "B", nil })

	select {
	case err := <-sawCancel:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("in-flight request was not canceled")
	}
}

func TestSequencer_TimeoutIsSilent(t *testing.T) {
	s := NewSequencer[[]string](20 * time.Millisecond)

	out, current := s.Do(context.Background(), func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("fetch: %w", ctx.Err())
	})

	assert.True(t, current)
	assert.Equal(t, StatusCanceled, out.Status)
	assert.NoError(t, out.Err)
	assert.Empty(t, out.Value)
}

func TestSequencer_FailureSurfaces(t *testing.T) {
	s := NewSequencer[string](time.Second)
	boom := errors.New("service unavailable")

	out, current := s.Do(context.Background(), func(ctx context.Context) (string, error) {
		return "", fmt.Errorf("lookup: %w", boom)
	})

	assert.True(t, current)
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, boom)
	assert.False(t, IsCancellation(out.Err))
}

func TestSequencer_CancelInvalidatesInFlight(t *testing.T) {
	s := NewSequencer[string](time.Second)

	started := make(chan struct{})
	done := make(chan bool, 1)
	go func() {
		_, current := s.Do(context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		})
		done <- current
	}()

	<-started
	s.Cancel()
	assert.False(t, <-done)
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(ErrCanceled))
	assert.True(t, IsCancellation(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.False(t, IsCancellation(errors.New("boom")))
	assert.False(t, IsCancellation(nil))
}
