package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PokemonResultLimit caps a single pokemon search.
const PokemonResultLimit = 20

// PokemonClient searches the TCGdex REST API.
type PokemonClient struct {
	httpClient  *http.Client
	baseURL     string
	language    string
	rateLimiter *rateLimiter
}

type tcgdexBrief struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

type tcgdexCard struct {
	tcgdexBrief
	Rarity string `json:"rarity"`
	Set    struct {
		Name string `json:"name"`
	} `json:"set"`
}

func NewPokemonClient(baseURL, language string) *PokemonClient {
	if baseURL == "" {
		baseURL = "https://api.tcgdex.net/v2"
	}
	if language == "" {
		language = "es"
	}
	return &PokemonClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		language:    language,
		rateLimiter: newRateLimiter(200 * time.Millisecond),
	}
}

func (c *PokemonClient) Game() Game {
	return GamePokemon
}

// Search returns at most PokemonResultLimit brief hits. Set and rarity are
// left empty; Details fills them in.
func (c *PokemonClient) Search(ctx context.Context, query string) ([]Card, error) {
	endpoint := fmt.Sprintf("%s/%s/cards?name=%s", c.baseURL, c.language, url.QueryEscape(query))

	var briefs []tcgdexBrief
	if err := c.get(ctx, endpoint, &briefs); err != nil {
		return nil, fmt.Errorf("search pokemon cards: %w", err)
	}

	if len(briefs) > PokemonResultLimit {
		briefs = briefs[:PokemonResultLimit]
	}

	cards := make([]Card, 0, len(briefs))
	for _, b := range briefs {
		cards = append(cards, b.toCard())
	}
	return cards, nil
}

// Details fetches the full record for a card id.
func (c *PokemonClient) Details(ctx context.Context, id string) (*Card, error) {
	if id == "" {
		return nil, fmt.Errorf("card id is required")
	}

	endpoint := fmt.Sprintf("%s/%s/cards/%s", c.baseURL, c.language, url.PathEscape(id))

	var full tcgdexCard
	if err := c.get(ctx, endpoint, &full); err != nil {
		return nil, fmt.Errorf("fetch pokemon card %s: %w", id, err)
	}

	card := full.toCard()
	card.Rarity = full.Rarity
	card.Set = full.Set.Name
	return &card, nil
}

func (b tcgdexBrief) toCard() Card {
	card := Card{
		ID:      b.ID,
		Name:    b.Name,
		Details: "ID: " + b.LocalID,
		Game:    GamePokemon,
	}
	if b.Image != "" {
		card.ImageURLSmall = b.Image + "/low.webp"
		card.ImageURLLarge = b.Image + "/high.png"
	}
	return card
}

func (c *PokemonClient) get(ctx context.Context, endpoint string, out any) error {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
