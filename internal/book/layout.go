// Package book turns an album's cover/back assets and page records into the
// renderable page sequence shown by a double-page flip book.
//
// A double-page display needs an even number of pages so the back cover
// lands on its own left-hand side. The cover and back always contribute two
// pages, so parity depends only on the interior count: one blank filler page
// before the back cover fixes an odd count, and one is always enough.
package book

import (
	"sort"

	"github.com/cardshelf/showcase/internal/entities"
	"github.com/cardshelf/showcase/internal/utils"
)

// DefaultCoverColor is used for covers and backs without art or a colour.
const DefaultCoverColor = "#1a1a1a"

type PageKind string

const (
	KindCover    PageKind = "cover"
	KindInterior PageKind = "interior"
	KindFiller   PageKind = "filler"
	KindBack     PageKind = "back"
)

// Slot is one of the nine card positions of an interior page.
type Slot struct {
	Index   int               `json:"index"`
	Present bool              `json:"present"`
	Card    entities.CardInfo `json:"card"`
}

// HasImage reports whether the slot can be enlarged.
func (s Slot) HasImage() bool {
	return s.Present && s.Card.ImageURL != ""
}

// Page is one renderable page. Number is 1-based, as the Render Host counts.
type Page struct {
	Number      int      `json:"number"`
	Kind        PageKind `json:"kind"`
	PageID      uint     `json:"page_id,omitempty"`
	PageIndex   int      `json:"page_index"`
	ImageURL    string   `json:"image_url,omitempty"`
	Color       string   `json:"color,omitempty"`
	Title       string   `json:"title,omitempty"`
	Placeholder bool     `json:"placeholder"`
	Slots       []Slot   `json:"slots,omitempty"`
}

// Layout is the finalized page sequence for one album.
type Layout struct {
	AlbumID uint   `json:"album_id"`
	Title   string `json:"title"`
	Pages   []Page `json:"pages"`

	interior int
	byPageID map[uint]int
}

// BuildLayout never fails: missing art becomes a solid-colour placeholder
// and absent slots render empty.
func BuildLayout(album entities.Album, pages []entities.Page) *Layout {
	ordered := make([]entities.Page, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageIndex < ordered[j].PageIndex
	})

	l := &Layout{
		AlbumID:  album.ID,
		Title:    album.Title,
		Pages:    make([]Page, 0, len(ordered)+3),
		byPageID: make(map[uint]int, len(ordered)),
	}

	l.append(coverPage(KindCover, album.CoverImageURL, album.CoverColor, album.Title))

	for _, p := range ordered {
		n := l.append(Page{
			Kind:      KindInterior,
			PageID:    p.ID,
			PageIndex: p.PageIndex,
			Slots:     buildSlots(p.Slots),
		})
		if _, dup := l.byPageID[p.ID]; !dup {
			l.byPageID[p.ID] = n
		}
		l.interior++
	}

	if len(ordered)%2 != 0 {
		l.append(Page{Kind: KindFiller, PageIndex: -1})
	}

	// The back placeholder carries no title.
	l.append(coverPage(KindBack, album.BackImageURL, album.BackColor, ""))

	return l
}

func (l *Layout) append(p Page) int {
	p.Number = len(l.Pages) + 1
	l.Pages = append(l.Pages, p)
	return p.Number
}

func coverPage(kind PageKind, imageURL, color, title string) Page {
	p := Page{Kind: kind, PageIndex: -1}
	if imageURL != "" {
		p.ImageURL = imageURL
		return p
	}
	p.Color = utils.ColorOrDefault(color, DefaultCoverColor)
	p.Title = title
	p.Placeholder = true
	return p
}

func buildSlots(records []entities.CardSlot) []Slot {
	slots := make([]Slot, entities.SlotsPerPage)
	for i := range slots {
		slots[i].Index = i
	}
	for _, r := range records {
		if r.SlotIndex < 0 || r.SlotIndex >= entities.SlotsPerPage {
			continue
		}
		if slots[r.SlotIndex].Present {
			continue
		}
		slots[r.SlotIndex].Present = true
		slots[r.SlotIndex].Card = r.CardInfo
	}
	return slots
}

// Len is the total page count; always even.
func (l *Layout) Len() int {
	return len(l.Pages)
}

// InteriorCount is the number of page records in the album.
func (l *Layout) InteriorCount() int {
	return l.interior
}

// HasFiller reports whether a blank page was inserted before the back cover.
func (l *Layout) HasFiller() bool {
	return len(l.Pages) >= 2 && l.Pages[len(l.Pages)-2].Kind == KindFiller
}

// PageNumberOf maps a page record to its 1-based page number.
func (l *Layout) PageNumberOf(pageID uint) (int, bool) {
	n, ok := l.byPageID[pageID]
	return n, ok
}

// Page returns the page with the given 1-based number.
func (l *Layout) Page(number int) (Page, bool) {
	if number < 1 || number > len(l.Pages) {
		return Page{}, false
	}
	return l.Pages[number-1], true
}

// Slot returns a slot by page number and slot index.
func (l *Layout) Slot(number, index int) (Slot, bool) {
	p, ok := l.Page(number)
	if !ok || p.Kind != KindInterior || index < 0 || index >= len(p.Slots) {
		return Slot{}, false
	}
	return p.Slots[index], true
}

// ImageURLs lists every distinct image the layout references, covers first.
func (l *Layout) ImageURLs() []string {
	seen := make(map[string]struct{})
	var urls []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	for _, p := range l.Pages {
		add(p.ImageURL)
		for _, s := range p.Slots {
			if s.Present {
				add(s.Card.ImageURL)
			}
		}
	}
	return urls
}
