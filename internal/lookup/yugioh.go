package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// YugiohResultLimit caps a single yugioh search.
	YugiohResultLimit = 100

	noSetName   = "No Set Info"
	noSetRarity = "Common"
)

// YugiohClient searches the YGOPRODeck card database. Every printing
// (set x rarity x artwork) becomes its own hit.
type YugiohClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

func NewYugiohClient(baseURL string) *YugiohClient {
	if baseURL == "" {
		baseURL = "https://db.ygoprodeck.com/api/v7"
	}
	return &YugiohClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: newRateLimiter(100 * time.Millisecond),
	}
}

func (c *YugiohClient) Game() Game {
	return GameYugioh
}

func (c *YugiohClient) Search(ctx context.Context, query string) ([]Card, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/cardinfo.php?fname=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search yugioh cards: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// No match is reported as 400 with an error object and no data.
	if resp.StatusCode == http.StatusBadRequest && !gjson.GetBytes(body, "data").Exists() {
		return []Card{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode response: invalid json")
	}

	return expandPrintings(gjson.GetBytes(body, "data")), nil
}

func expandPrintings(data gjson.Result) []Card {
	cards := make([]Card, 0)
	seen := make(map[cardKey]struct{})

	add := func(c Card) {
		if _, dup := seen[c.key()]; dup {
			return
		}
		seen[c.key()] = struct{}{}
		cards = append(cards, c)
	}

	data.ForEach(func(_, card gjson.Result) bool {
		name := card.Get("name").String()
		kind := card.Get("type").String()
		sets := card.Get("card_sets").Array()

		card.Get("card_images").ForEach(func(_, img gjson.Result) bool {
			base := Card{
				Name:          name,
				ImageURLSmall: img.Get("image_url_small").String(),
				ImageURLLarge: img.Get("image_url").String(),
				Details:       kind,
				Game:          GameYugioh,
			}

			if len(sets) == 0 {
				base.Set, base.Rarity = noSetName, noSetRarity
				add(base)
				return len(cards) < YugiohResultLimit
			}

			for _, set := range sets {
				c := base
				c.Set = set.Get("set_name").String()
				c.Rarity = set.Get("set_rarity").String()
				add(c)
				if len(cards) >= YugiohResultLimit {
					return false
				}
			}
			return true
		})

		return len(cards) < YugiohResultLimit
	})

	return cards
}
