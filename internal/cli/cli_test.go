package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshelf/showcase/internal/database/catalog"
)

var catalogFile = filepath.Join("..", "seed", "testdata", "catalog.toml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSeedAndLayout(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "showcase.db")

	out, err := run(t, "seed", "--db", dbPath, catalogFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Store: kanto-cards (2 albums, 1 decks)")
	assert.Contains(t, out, "Imported: 1 stores, 2 albums, 2 pages, 2 slots, 1 decks, 2 deck cards")

	out, err = run(t, "layout", "--db", dbPath, "--store", "kanto-cards")
	require.NoError(t, err)
	assert.Contains(t, out, "Album: Base Set")
	assert.Contains(t, out, "4 pages, 2 interior")
	assert.Contains(t, out, "index 0  1:Charizard")
	assert.Contains(t, out, "index 2  4:Blastoise")
	assert.Contains(t, out, "solid #aa11bb", "back without art is a placeholder")
	assert.NotContains(t, out, "filler")
	assert.NotContains(t, out, "Binder Duplicates", "private albums are hidden")
	assert.Contains(t, out, "Deck: Dragons (2 slides)")
	assert.NotContains(t, out, "\x1b[", "no colour when not writing to a terminal")
}

func TestSeed_DryRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "showcase.db")

	out, err := run(t, "seed", "--db", dbPath, "--dry-run", catalogFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "Would import: 1 stores, 2 albums")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the database")
}

func TestSeed_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[stores]]\nname = \"\"\n"), 0o600))

	_, err := run(t, "seed", "--db", filepath.Join(t.TempDir(), "x.db"), path)
	assert.Error(t, err)
}

func TestLayout_UnknownStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "showcase.db")
	_, err := run(t, "seed", "--db", dbPath, catalogFile)
	require.NoError(t, err)

	_, err = run(t, "layout", "--db", dbPath, "--store", "johto-cards")
	assert.ErrorIs(t, err, catalog.ErrStoreNotFound)
}

func TestLayout_NoStore(t *testing.T) {
	t.Setenv("DEFAULT_STORE", "")
	_, err := run(t, "layout", "--db", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--store is required")
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/es/cards", r.URL.Path)
		assert.Equal(t, "pikachu", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"base1-58","localId":"58","name":"Pikachu","image":"https://assets.tcgdex.net/es/base/base1/58"}]`))
	}))
	defer srv.Close()
	t.Setenv("LOOKUP_POKEMON_BASE_URL", srv.URL)
	t.Setenv("LOOKUP_LANGUAGE", "es")

	out, err := run(t, "lookup", "--type", "pokemon", "pikachu")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikachu  ID: 58")
	assert.Contains(t, out, "https://assets.tcgdex.net/es/base/base1/58/high.png")
	assert.Contains(t, out, "Results: 1")
}

func TestLookup_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	t.Setenv("LOOKUP_POKEMON_BASE_URL", srv.URL)

	out, err := run(t, "lookup", "--type", "pokemon", "mewthree")
	require.NoError(t, err)
	assert.Contains(t, out, `No pokemon cards match "mewthree"`)
}

func TestLookup_UnknownGame(t *testing.T) {
	_, err := run(t, "lookup", "--type", "magic", "black lotus")
	assert.Error(t, err)
}
