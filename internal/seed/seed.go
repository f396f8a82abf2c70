// Package seed reads a store catalog file (TOML) into import-ready
// catalog trees.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/database/catalog"
	"github.com/cardshelf/showcase/internal/entities"
	"github.com/cardshelf/showcase/internal/utils"
)

// File is the top level of a catalog file.
type File struct {
	Stores []StoreSection `toml:"stores"`
}

type StoreSection struct {
	Name   string         `toml:"name"`
	Albums []AlbumSection `toml:"albums"`
	Decks  []DeckSection  `toml:"decks"`
}

type AlbumSection struct {
	Title      string        `toml:"title"`
	CoverImage string        `toml:"cover_image"`
	CoverColor string        `toml:"cover_color"`
	BackImage  string        `toml:"back_image"`
	BackColor  string        `toml:"back_color"`
	Public     *bool         `toml:"public"`
	Pages      []PageSection `toml:"pages"`
}

type PageSection struct {
	Index int           `toml:"index"`
	Slots []CardSection `toml:"slots"`
}

type DeckSection struct {
	Name   string        `toml:"name"`
	Public *bool         `toml:"public"`
	Cards  []CardSection `toml:"cards"`
}

// CardSection describes one card. Slot is only read for album pages.
type CardSection struct {
	Slot      int    `toml:"slot"`
	Name      string `toml:"name"`
	Image     string `toml:"image"`
	Rarity    string `toml:"rarity"`
	Holo      string `toml:"holo"`
	Mask      string `toml:"mask"`
	Expansion string `toml:"expansion"`
	Condition string `toml:"condition"`
	Quantity  int    `toml:"quantity"`
	Price     string `toml:"price"`
}

// LoadFile decodes and validates a catalog file.
func LoadFile(path string) ([]catalog.StoreCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalog. Every problem found is reported,
// not only the first.
func Load(r io.Reader) ([]catalog.StoreCatalog, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.Warn().Str("key", key.String()).Msg("Unknown catalog key ignored")
	}

	return file.Catalogs()
}

// Catalogs converts the file into import trees.
func (f File) Catalogs() ([]catalog.StoreCatalog, error) {
	var errs []error
	seen := make(map[string]bool)
	out := make([]catalog.StoreCatalog, 0, len(f.Stores))

	for i, s := range f.Stores {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("stores[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("store %q: defined twice", name))
			continue
		}
		seen[name] = true

		sc := catalog.StoreCatalog{Store: entities.Store{StoreName: name}}
		for j, a := range s.Albums {
			album, err := a.album()
			if err != nil {
				errs = append(errs, fmt.Errorf("store %q albums[%d]: %w", name, j, err))
				continue
			}
			sc.Albums = append(sc.Albums, album)
		}
		for j, d := range s.Decks {
			deck, err := d.deck()
			if err != nil {
				errs = append(errs, fmt.Errorf("store %q decks[%d]: %w", name, j, err))
				continue
			}
			sc.Decks = append(sc.Decks, deck)
		}
		out = append(out, sc)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func (a AlbumSection) album() (entities.Album, error) {
	if strings.TrimSpace(a.Title) == "" {
		return entities.Album{}, errors.New("title is required")
	}

	cover, err := optionalColor(a.CoverColor)
	if err != nil {
		return entities.Album{}, fmt.Errorf("cover_color: %w", err)
	}
	back, err := optionalColor(a.BackColor)
	if err != nil {
		return entities.Album{}, fmt.Errorf("back_color: %w", err)
	}

	album := entities.Album{
		Title:         a.Title,
		CoverImageURL: a.CoverImage,
		CoverColor:    cover,
		BackImageURL:  a.BackImage,
		BackColor:     back,
		IsPublic:      a.Public,
	}

	pageSeen := make(map[int]bool)
	for _, p := range a.Pages {
		if p.Index < 0 {
			return entities.Album{}, fmt.Errorf("page index %d is negative", p.Index)
		}
		if pageSeen[p.Index] {
			return entities.Album{}, fmt.Errorf("page index %d defined twice", p.Index)
		}
		pageSeen[p.Index] = true

		page := entities.Page{PageIndex: p.Index}
		slotSeen := make(map[int]bool)
		for _, c := range p.Slots {
			if c.Slot < 0 || c.Slot >= entities.SlotsPerPage {
				return entities.Album{}, fmt.Errorf("page %d: slot %d outside [0,%d)", p.Index, c.Slot, entities.SlotsPerPage)
			}
			if slotSeen[c.Slot] {
				return entities.Album{}, fmt.Errorf("page %d: slot %d defined twice", p.Index, c.Slot)
			}
			slotSeen[c.Slot] = true
			page.Slots = append(page.Slots, entities.CardSlot{SlotIndex: c.Slot, CardInfo: c.info()})
		}
		album.Pages = append(album.Pages, page)
	}
	return album, nil
}

func (d DeckSection) deck() (entities.Deck, error) {
	if strings.TrimSpace(d.Name) == "" {
		return entities.Deck{}, errors.New("name is required")
	}
	deck := entities.Deck{Name: d.Name, IsPublic: d.Public}
	for i, c := range d.Cards {
		deck.Cards = append(deck.Cards, entities.DeckCard{Position: i, CardInfo: c.info()})
	}
	return deck, nil
}

func (c CardSection) info() entities.CardInfo {
	return entities.CardInfo{
		Name:       c.Name,
		ImageURL:   c.Image,
		Rarity:     c.Rarity,
		HoloEffect: c.Holo,
		MaskURL:    c.Mask,
		Expansion:  c.Expansion,
		Condition:  c.Condition,
		Quantity:   c.Quantity,
		Price:      c.Price,
	}
}

func optionalColor(color string) (string, error) {
	if strings.TrimSpace(color) == "" {
		return "", nil
	}
	return utils.NormalizeHexColor(color)
}
