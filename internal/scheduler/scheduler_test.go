package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"30 3 * * *", true},   // Daily at 03:30
		{"0 * * * *", true},    // Every hour
		{"*/15 * * * *", true}, // Every 15 minutes
		{"invalid", false},
		{"* * * *", false},    // Missing field
		{"60 * * * *", false}, // Invalid minute
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	from := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	next, err := NextRun("30 3 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 30, 0, 0, time.Local), next)

	_, err = NextRun("invalid", from)
	assert.Error(t, err)
}

type fakePruner struct {
	calls  chan time.Duration
	err    error
	taskID string
}

func (f *fakePruner) PruneImages(ctx context.Context, maxAge time.Duration) (string, error) {
	f.calls <- maxAge
	return f.taskID, f.err
}

type fakeCache struct {
	removed int
	maxAge  time.Duration
}

func (c *fakeCache) Prune(maxAge time.Duration) (int, error) {
	c.maxAge = maxAge
	return c.removed, nil
}

func TestImagePruneScheduler_StartStop(t *testing.T) {
	s := NewImagePruneScheduler(&fakePruner{calls: make(chan time.Duration, 1)}, "30 3 * * *", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(ctx), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestImagePruneScheduler_StopsWithContext(t *testing.T) {
	s := NewImagePruneScheduler(&fakePruner{calls: make(chan time.Duration, 1)}, "0 * * * *", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestImagePruneScheduler_InvalidSchedule(t *testing.T) {
	s := NewImagePruneScheduler(&fakePruner{}, "every day", time.Hour)
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestImagePruneScheduler_RunNow(t *testing.T) {
	pruner := &fakePruner{calls: make(chan time.Duration, 2), taskID: "task-1"}
	s := NewImagePruneScheduler(pruner, "30 3 * * *", 72*time.Hour)

	s.RunNow(context.Background())
	assert.Equal(t, 72*time.Hour, <-pruner.calls)
	assert.False(t, s.LastRun().IsZero())

	failing := &fakePruner{calls: make(chan time.Duration, 1), err: errors.New("disk full")}
	s = NewImagePruneScheduler(failing, "30 3 * * *", time.Hour)
	s.RunNow(context.Background())
	<-failing.calls
	assert.True(t, s.LastRun().IsZero())
}

func TestCachePruner(t *testing.T) {
	cache := &fakeCache{removed: 4}
	id, err := CachePruner{Cache: cache}.PruneImages(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 2*time.Hour, cache.maxAge)
}
