package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	warmed chan []string
	pruned chan time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		warmed: make(chan []string, 4),
		pruned: make(chan time.Duration, 4),
	}
}

func (s *fakeStore) Warm(ctx context.Context, urls []string) (int, error) {
	s.warmed <- urls
	return len(urls), nil
}

func (s *fakeStore) Prune(maxAge time.Duration) (int, error) {
	s.pruned <- maxAge
	return 0, nil
}

func newTestClient(t *testing.T, store ImageStore) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, store)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "showcase-tasks.db"), TasksDBPath(filepath.Join("data", "showcase.db")))
	assert.Equal(t, "cards-tasks", TasksDBPath("cards"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(tmpDir, "test.db"), cfg, newFakeStore())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t, newFakeStore())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestWarmImages(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.NoError(t, client.WarmImages(ctx, 3, []string{"https://img/a.png", "https://img/b.png"}))
	require.NoError(t, client.WarmImages(ctx, 4, nil), "nothing to queue")

	select {
	case urls := <-store.warmed:
		assert.Equal(t, []string{"https://img/a.png", "https://img/b.png"}, urls)
	case <-time.After(5 * time.Second):
		t.Fatal("warm-up task was not executed within timeout")
	}
}

func TestPruneImages(t *testing.T) {
	store := newFakeStore()
	client := newTestClient(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.PruneImages(ctx, 48*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case maxAge := <-store.pruned:
		assert.Equal(t, 48*time.Hour, maxAge)
	case <-time.After(5 * time.Second):
		t.Fatal("prune task was not executed within timeout")
	}
}

func TestTaskConfigs(t *testing.T) {
	warm := WarmImagesTask{}.Config()
	assert.Equal(t, "warm_images", warm.Name)
	assert.Equal(t, 3, warm.MaxAttempts)
	assert.NotNil(t, warm.Retention)

	prune := PruneImagesTask{}.Config()
	assert.Equal(t, "prune_images", prune.Name)
	assert.Equal(t, 1, prune.MaxAttempts)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
