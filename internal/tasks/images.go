package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// Queue names.
const (
	QueueWarmImages  = "warm_images"
	QueuePruneImages = "prune_images"
)

// ImageStore is the cache the image tasks operate on.
type ImageStore interface {
	Warm(ctx context.Context, urls []string) (int, error)
	Prune(maxAge time.Duration) (int, error)
}

// WarmImagesTask prefetches the images of one album into the cache.
type WarmImagesTask struct {
	AlbumID uint     `json:"album_id"`
	URLs    []string `json:"urls"`
}

// Config returns the queue configuration for warm-up tasks.
func (t WarmImagesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueWarmImages,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// WarmImagesProcessor creates a processor function for WarmImagesTask.
func WarmImagesProcessor(store ImageStore) backlite.QueueProcessor[WarmImagesTask] {
	return func(ctx context.Context, task WarmImagesTask) error {
		if store == nil {
			return fmt.Errorf("image cache not configured")
		}

		fetched, err := store.Warm(ctx, task.URLs)
		if err != nil {
			return fmt.Errorf("warm images of album %d: %w", task.AlbumID, err)
		}

		log.Debug().
			Uint("album_id", task.AlbumID).
			Int("fetched", fetched).
			Int("total", len(task.URLs)).
			Msg("Album images warmed")
		return nil
	}
}

// NewWarmImagesQueue creates a backlite queue for warm-up tasks.
func NewWarmImagesQueue(store ImageStore) backlite.Queue {
	return backlite.NewQueue(WarmImagesProcessor(store))
}

// PruneImagesTask removes cached images older than MaxAge.
type PruneImagesTask struct {
	MaxAge time.Duration `json:"max_age"`
}

// Config returns the queue configuration for prune tasks.
func (t PruneImagesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueuePruneImages,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneImagesProcessor creates a processor function for PruneImagesTask.
func PruneImagesProcessor(store ImageStore) backlite.QueueProcessor[PruneImagesTask] {
	return func(ctx context.Context, task PruneImagesTask) error {
		if store == nil {
			return fmt.Errorf("image cache not configured")
		}

		removed, err := store.Prune(task.MaxAge)
		if err != nil {
			return fmt.Errorf("prune images: %w", err)
		}

		log.Info().Int("removed", removed).Dur("max_age", task.MaxAge).Msg("Pruned cached images")
		return nil
	}
}

// NewPruneImagesQueue creates a backlite queue for prune tasks.
func NewPruneImagesQueue(store ImageStore) backlite.Queue {
	return backlite.NewQueue(PruneImagesProcessor(store))
}
