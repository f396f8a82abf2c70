package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// Client runs the background image jobs on a backlite queue.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// TasksDBPath places the queue database next to the catalog database with
// a "-tasks" suffix.
func TasksDBPath(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

// NewClient opens the queue database and registers the image queues.
func NewClient(mainDBPath string, cfg Config, store ImageStore) (*Client, error) {
	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zeroLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	client.Register(NewWarmImagesQueue(store))
	client.Register(NewPruneImagesQueue(store))

	return &Client{
		client: client,
		db:     db,
		config: cfg,
	}, nil
}

// Start begins processing tasks. It does not block; use Stop for a
// graceful shutdown.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Info().Int("workers", c.config.Workers).Msg("Task queue started")
	c.client.Start(ctx)
}

// Stop waits for active tasks to complete. It returns false when the
// context expired first.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	success := c.client.Stop(ctx)
	if success {
		log.Info().Msg("Task queue stopped gracefully")
	} else {
		log.Warn().Msg("Task queue stopped with timeout, some tasks may not have completed")
	}
	return success
}

// Close releases the database. Call it after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// WarmImages queues a cache warm-up for a freshly loaded album.
func (c *Client) WarmImages(ctx context.Context, albumID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	if _, err := c.client.Add(WarmImagesTask{AlbumID: albumID, URLs: urls}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("queue warm-up for album %d: %w", albumID, err)
	}
	return nil
}

// PruneImages queues removal of cached images older than maxAge.
func (c *Client) PruneImages(ctx context.Context, maxAge time.Duration) (string, error) {
	ids, err := c.client.Add(PruneImagesTask{MaxAge: maxAge}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("queue image prune: %w", err)
	}
	return ids[0], nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

// zeroLogger implements backlite.Logger on the global zerolog logger.
type zeroLogger struct{}

func (l *zeroLogger) Info(message string, params ...any) {
	log.Debug().Str("component", "tasks").Fields(params).Msg(message)
}

func (l *zeroLogger) Error(message string, params ...any) {
	log.Error().Str("component", "tasks").Fields(params).Msg(message)
}
