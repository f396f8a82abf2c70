package viewer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cardshelf/showcase/internal/book"
	"github.com/cardshelf/showcase/internal/search"
)

// ErrSlideOutOfRange is returned for a slide index outside the deck.
var ErrSlideOutOfRange = errors.New("slide out of range")

// ErrTransitionRejected is returned when a page turn neither started from a
// corner drag nor falls inside a navigation guard window.
var ErrTransitionRejected = errors.New("page transition rejected")

type TurnOrigin string

const (
	OriginCornerDrag TurnOrigin = "corner-drag"
	OriginSearch     TurnOrigin = "search"
	OriginOther      TurnOrigin = "other"
)

// RenderHost is the page-flip widget of one album.
type RenderHost interface {
	// GoToPage turns to page n. guarded marks the turn as search-originated
	// so the corner-only policy lets it through.
	GoToPage(n int, guarded bool) error
	CurrentPage() int
}

// Carousel is the slide widget of one deck.
type Carousel interface {
	GoToSlide(i int) error
	CurrentSlide() int
}

// PageFlipHost tracks the visible spread of an album. Only corner drags and
// guarded turns are accepted.
type PageFlipHost struct {
	mu      sync.Mutex
	pages   int
	current int
	config  book.HostConfig
	guard   *search.NavigationGuard
}

func NewPageFlipHost(pages int, config book.HostConfig, guard *search.NavigationGuard) *PageFlipHost {
	if pages < 1 {
		pages = 1
	}
	return &PageFlipHost{pages: pages, current: 1, config: config, guard: guard}
}

func (h *PageFlipHost) GoToPage(n int, guarded bool) error {
	origin := OriginOther
	if guarded {
		h.guard.Arm()
		origin = OriginSearch
	}
	return h.Turn(n, origin)
}

// Turn applies a transition from origin.
func (h *PageFlipHost) Turn(n int, origin TurnOrigin) error {
	if !h.accepts(origin) {
		return fmt.Errorf("turn to page %d from %s: %w", n, origin, ErrTransitionRejected)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n < 1 {
		n = 1
	}
	if n > h.pages {
		n = h.pages
	}
	if h.config.Display == book.DisplayDouble && book.SpreadContains(h.current, n) {
		return nil
	}
	h.current = n
	return nil
}

// accepts is the host's guard predicate: corner drags always pass, any
// other transition only while the navigation window is open.
func (h *PageFlipHost) accepts(origin TurnOrigin) bool {
	if origin == OriginCornerDrag {
		return true
	}
	return h.guard.Active()
}

func (h *PageFlipHost) CurrentPage() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *PageFlipHost) PageCount() int {
	return h.pages
}

func (h *PageFlipHost) Config() book.HostConfig {
	return h.config
}

// SlideCarousel tracks the visible slide of a deck.
type SlideCarousel struct {
	mu      sync.Mutex
	slides  int
	current int
}

func NewSlideCarousel(slides int) *SlideCarousel {
	return &SlideCarousel{slides: slides}
}

func (c *SlideCarousel) GoToSlide(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.slides {
		return fmt.Errorf("slide %d of %d: %w", i, c.slides, ErrSlideOutOfRange)
	}
	c.current = i
	return nil
}

func (c *SlideCarousel) CurrentSlide() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *SlideCarousel) Len() int {
	return c.slides
}
