package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if strings.HasSuffix(r.URL.Path, "missing.png") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake image data"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "images")

	cache, err := NewCache(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, cacheDir, cache.CacheDir())

	_, err = os.Stat(cacheDir)
	assert.NoError(t, err, "cache directory was not created")
}

func TestGet_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	server := imageServer(t, &hits)
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	path1, err := cache.Get(context.Background(), server.URL+"/cards/zard.png")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path1))

	data, err := os.ReadFile(path1)
	require.NoError(t, err)
	assert.Equal(t, "fake image data", string(data))

	path2, err := cache.Get(context.Background(), server.URL+"/cards/zard.png")
	require.NoError(t, err)
	assert.Equal(t, path1, path2)
	assert.Equal(t, int32(1), hits.Load(), "second request served from disk")
	assert.True(t, cache.Has(server.URL+"/cards/zard.png"))
}

func TestGet_Errors(t *testing.T) {
	server := imageServer(t, nil)
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), server.URL+"/missing.png")
	assert.Error(t, err)

	for _, u := range []string{"", "file:///etc/passwd", "/relative.png", "ftp://host/a.png"} {
		_, err = cache.Get(context.Background(), u)
		assert.ErrorIs(t, err, ErrUnsupportedURL, u)
	}
}

func TestWarm(t *testing.T) {
	var hits atomic.Int32
	server := imageServer(t, &hits)
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	urls := []string{server.URL + "/a.png", server.URL + "/b.jpg", server.URL + "/missing.png"}
	fetched, err := cache.Warm(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched)

	fetched, err = cache.Warm(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched, "already cached")
}

func TestPrune(t *testing.T) {
	server := imageServer(t, nil)
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	oldPath, err := cache.Get(context.Background(), server.URL+"/old.png")
	require.NoError(t, err)
	freshPath, err := cache.Get(context.Background(), server.URL+"/fresh.png")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := cache.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshPath)
	assert.NoError(t, err)
}

func TestFilename(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	name1 := cache.filename("https://example.com/card.png")
	assert.Equal(t, name1, cache.filename("https://example.com/card.png"))
	assert.NotEqual(t, name1, cache.filename("https://example.com/other.png"))
	assert.True(t, strings.HasSuffix(cache.filename("https://example.com/high"), ".img"))
	assert.True(t, strings.HasSuffix(cache.filename("https://example.com/low.WEBP?x=1"), ".webp"))
}
