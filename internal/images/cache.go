package images

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnsupportedURL is returned for anything but absolute http(s) URLs.
var ErrUnsupportedURL = errors.New("unsupported image url")

const filePrefix = "img_"

// Cache handles local caching of card, cover and back images.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
	maxBytes   int64
}

// NewCache creates a new image cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxBytes: 20 << 20,
	}, nil
}

// Get returns the cached file for imageURL, fetching it first if needed.
func (c *Cache) Get(ctx context.Context, imageURL string) (string, error) {
	if err := validateURL(imageURL); err != nil {
		return "", err
	}

	cachePath := filepath.Join(c.cacheDir, c.filename(imageURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, imageURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Has reports whether imageURL is already cached.
func (c *Cache) Has(imageURL string) bool {
	_, err := os.Stat(filepath.Join(c.cacheDir, c.filename(imageURL)))
	return err == nil
}

// Warm fetches every uncached URL. Individual failures are logged and
// skipped; the count of newly cached images is returned.
func (c *Cache) Warm(ctx context.Context, urls []string) (int, error) {
	fetched := 0
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}
		if c.Has(u) {
			continue
		}
		if _, err := c.Get(ctx, u); err != nil {
			log.Debug().Err(err).Str("url", u).Msg("Image warm-up skipped")
			continue
		}
		fetched++
	}
	return fetched, nil
}

// Prune removes cached images last written before now-maxAge.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, filePrefix+"*"))
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// filename is stable per URL and keeps the original extension so the
// content type can be guessed when serving.
func (c *Cache) filename(imageURL string) string {
	hash := sha256.Sum256([]byte(imageURL))
	ext := ".img"
	if u, err := url.Parse(imageURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return fmt.Sprintf("%s%x%s", filePrefix, hash[:12], ext)
}

func validateURL(imageURL string) error {
	u, err := url.Parse(imageURL)
	if err != nil || imageURL == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, imageURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, imageURL)
	}
	return nil
}

// fetchAndCache downloads an image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, imageURL, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "CardShowcase/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	// Create temp file in same directory for atomic write
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	n, err := io.Copy(tmpFile, io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return err
	}
	if n > c.maxBytes {
		return fmt.Errorf("image larger than %d bytes", c.maxBytes)
	}

	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}
