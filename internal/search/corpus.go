package search

import (
	"github.com/cardshelf/showcase/internal/book"
	"github.com/cardshelf/showcase/internal/entities"
)

type CollectionKind string

const (
	KindAlbum CollectionKind = "album"
	KindDeck  CollectionKind = "deck"
)

// CardKey identifies a rendered card. For albums Page is the 1-based page
// number and Index the slot; for decks Page is zero and Index the slide.
type CardKey struct {
	Kind         CollectionKind `json:"kind"`
	CollectionID uint           `json:"collection_id"`
	Page         int            `json:"page,omitempty"`
	Index        int            `json:"index"`
}

type cardDoc struct {
	key  CardKey
	name string
}

type collectionDoc struct {
	kind  CollectionKind
	id    uint
	title string
	cards []cardDoc
}

// Corpus is the lowercased search index of everything currently rendered.
// It is rebuilt whenever albums or decks are (re)loaded.
type Corpus struct {
	albums []collectionDoc
	decks  []collectionDoc
}

func NewCorpus() *Corpus {
	return &Corpus{}
}

// AddAlbum indexes a layout's title and every present slot, in page then
// slot order so the first match is the lowest page.
func (c *Corpus) AddAlbum(l *book.Layout) {
	doc := collectionDoc{kind: KindAlbum, id: l.AlbumID, title: lower(l.Title)}
	for _, p := range l.Pages {
		if p.Kind != book.KindInterior {
			continue
		}
		for _, s := range p.Slots {
			if !s.Present {
				continue
			}
			doc.cards = append(doc.cards, cardDoc{
				key:  CardKey{Kind: KindAlbum, CollectionID: l.AlbumID, Page: p.Number, Index: s.Index},
				name: lower(s.Card.Name),
			})
		}
	}
	c.albums = append(c.albums, doc)
}

// AddDeck indexes a deck's name and cards in slide order.
func (c *Corpus) AddDeck(d entities.Deck) {
	doc := collectionDoc{kind: KindDeck, id: d.ID, title: lower(d.Name)}
	for i, card := range d.Cards {
		doc.cards = append(doc.cards, cardDoc{
			key:  CardKey{Kind: KindDeck, CollectionID: d.ID, Index: i},
			name: lower(card.CardInfo.Name),
		})
	}
	c.decks = append(c.decks, doc)
}

// ReplaceDecks drops the deck index and rebuilds it.
func (c *Corpus) ReplaceDecks(decks []entities.Deck) {
	c.decks = nil
	for _, d := range decks {
		c.AddDeck(d)
	}
}

// AlbumIDs lists indexed albums in load order.
func (c *Corpus) AlbumIDs() []uint {
	ids := make([]uint, 0, len(c.albums))
	for _, a := range c.albums {
		ids = append(ids, a.id)
	}
	return ids
}

// DeckIDs lists indexed decks in load order.
func (c *Corpus) DeckIDs() []uint {
	ids := make([]uint, 0, len(c.decks))
	for _, d := range c.decks {
		ids = append(ids, d.id)
	}
	return ids
}
