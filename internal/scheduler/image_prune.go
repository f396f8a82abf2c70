package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ImagePruner removes stale images from the cache.
type ImagePruner interface {
	PruneImages(ctx context.Context, maxAge time.Duration) (string, error)
}

// CachePruner prunes a cache inline, for when the task queue is disabled.
type CachePruner struct {
	Cache interface {
		Prune(maxAge time.Duration) (int, error)
	}
}

func (p CachePruner) PruneImages(_ context.Context, maxAge time.Duration) (string, error) {
	removed, err := p.Cache.Prune(maxAge)
	if err != nil {
		return "", err
	}
	log.Info().Int("removed", removed).Msg("Pruned cached images")
	return "", nil
}

// ImagePruneScheduler periodically evicts cached images older than maxAge.
type ImagePruneScheduler struct {
	pruner   ImagePruner
	schedule string
	maxAge   time.Duration

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	lastRun    time.Time
}

func NewImagePruneScheduler(pruner ImagePruner, schedule string, maxAge time.Duration) *ImagePruneScheduler {
	return &ImagePruneScheduler{
		pruner:   pruner,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the prune job and runs the cron loop until Stop or ctx
// is done.
func (s *ImagePruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(cancelCtx)
	}); err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule image prune: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRun(s.schedule, time.Now())
	log.Info().
		Str("schedule", s.schedule).
		Dur("max_age", s.maxAge).
		Time("next_run", next).
		Msg("Image prune scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels a running prune and waits for it to return.
func (s *ImagePruneScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.cron.Stop().Done()

	log.Info().Msg("Image prune scheduler stopped")
}

// RunNow prunes once, outside the schedule.
func (s *ImagePruneScheduler) RunNow(ctx context.Context) {
	id, err := s.pruner.PruneImages(ctx, s.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Image prune failed")
		return
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	if id != "" {
		log.Debug().Str("task_id", id).Msg("Image prune queued")
	}
}

// IsRunning returns whether the scheduler is active.
func (s *ImagePruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun is when a prune last succeeded, zero if never.
func (s *ImagePruneScheduler) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}
