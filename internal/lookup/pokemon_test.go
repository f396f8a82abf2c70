package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPokemonClient(baseURL string) *PokemonClient {
	return &PokemonClient{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     baseURL,
		language:    "es",
		rateLimiter: newRateLimiter(0),
	}
}

func TestPokemonSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/es/cards", r.URL.Path)
		assert.Equal(t, "pikachu", r.URL.Query().Get("name"))

		briefs := []tcgdexBrief{
			{ID: "base1-58", LocalID: "58", Name: "Pikachu", Image: "https://assets.tcgdex.net/es/base/base1/58"},
			{ID: "promo-1", LocalID: "1", Name: "Pikachu"},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(briefs)
	}))
	defer server.Close()

	cards, err := newTestPokemonClient(server.URL).Search(context.Background(), "pikachu")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, Card{
		ID:            "base1-58",
		Name:          "Pikachu",
		ImageURLSmall: "https://assets.tcgdex.net/es/base/base1/58/low.webp",
		ImageURLLarge: "https://assets.tcgdex.net/es/base/base1/58/high.png",
		Details:       "ID: 58",
		Game:          GamePokemon,
	}, cards[0])

	assert.Empty(t, cards[1].ImageURLSmall, "no image means no derived urls")
	assert.Empty(t, cards[1].ImageURLLarge)
}

func TestPokemonSearch_Capped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		briefs := make([]tcgdexBrief, 50)
		for i := range briefs {
			briefs[i] = tcgdexBrief{ID: fmt.Sprintf("set-%d", i), LocalID: fmt.Sprint(i), Name: "Eevee"}
		}
		_ = json.NewEncoder(w).Encode(briefs)
	}))
	defer server.Close()

	cards, err := newTestPokemonClient(server.URL).Search(context.Background(), "eevee")
	require.NoError(t, err)
	assert.Len(t, cards, PokemonResultLimit)
	assert.Equal(t, "set-0", cards[0].ID)
}

func TestPokemonSearch_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestPokemonClient(server.URL).Search(context.Background(), "mew")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status: 502")
}

func TestPokemonSearch_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestPokemonClient(server.URL).Search(ctx, "mew")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPokemonDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/es/cards/base1-4" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"id": "base1-4",
			"localId": "4",
			"name": "Charizard",
			"image": "https://assets.tcgdex.net/es/base/base1/4",
			"rarity": "Rara Holo",
			"set": {"id": "base1", "name": "Set Básico"}
		}`))
	}))
	defer server.Close()

	client := newTestPokemonClient(server.URL)

	card, err := client.Details(context.Background(), "base1-4")
	require.NoError(t, err)
	assert.Equal(t, "Charizard", card.Name)
	assert.Equal(t, "Rara Holo", card.Rarity)
	assert.Equal(t, "Set Básico", card.Set)
	assert.Equal(t, "https://assets.tcgdex.net/es/base/base1/4/high.png", card.ImageURLLarge)

	_, err = client.Details(context.Background(), "nope")
	assert.Error(t, err)

	_, err = client.Details(context.Background(), "")
	assert.Error(t, err)
}
