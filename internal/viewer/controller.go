// Package viewer holds the per-session state of one showcase visitor: the
// active view, every album's Render Host and deck's Carousel, the search
// highlights and the enlarged-card overlay. Handlers call into a Controller
// and render what it returns.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/book"
	"github.com/cardshelf/showcase/internal/entities"
	"github.com/cardshelf/showcase/internal/lookup"
	"github.com/cardshelf/showcase/internal/search"
	"github.com/cardshelf/showcase/internal/tilt"
)

type View string

const (
	ViewAlbums View = "albums"
	ViewDecks  View = "decks"
)

// ParseView reads the view query parameter; anything unknown is albums.
func ParseView(s string) View {
	if View(s) == ViewDecks {
		return ViewDecks
	}
	return ViewAlbums
}

// ViewURL returns u with its view parameter rewritten, keeping every other
// parameter.
func ViewURL(u url.URL, v View) string {
	q := u.Query()
	q.Set("view", string(v))
	u.RawQuery = q.Encode()
	return u.String()
}

// Catalog is the read-only record source.
type Catalog interface {
	GetPublicAlbums(storeID uint) ([]entities.Album, error)
	GetAlbumPages(albumID uint) ([]entities.Page, error)
	GetPublicDecks(storeID uint) ([]entities.Deck, error)
}

// Lookup finds cards in remote databases.
type Lookup interface {
	Search(ctx context.Context, game lookup.Game, query string) ([]lookup.Card, error)
}

// ImageWarmer prefetches the images of a freshly loaded album.
type ImageWarmer interface {
	WarmImages(ctx context.Context, albumID uint, urls []string) error
}

var (
	ErrDragged = errors.New("pointer moved between press and release")

	// ErrNotLoaded is returned for albums and decks the session has not loaded.
	ErrNotLoaded = errors.New("collection is not loaded")
)

type Options struct {
	Host           book.HostOptions
	ViewportWidth  int
	ContainerWidth int
	Tilt           tilt.Options
	GuardWindow    time.Duration
	LocalDebounce  time.Duration
	RemoteDebounce time.Duration
	RemoteTimeout  time.Duration
	MinRemoteQuery int
	MessageTTL     time.Duration
	DragThreshold  float64
	LookupGame     lookup.Game
}

func DefaultOptions() Options {
	return Options{
		Host:           book.DefaultHostOptions(),
		Tilt:           tilt.DefaultOptions(),
		GuardWindow:    search.DefaultGuardWindow,
		LocalDebounce:  search.LocalDebounce,
		RemoteDebounce: search.RemoteDebounce,
		RemoteTimeout:  search.DefaultRequestTimeout,
		MinRemoteQuery: 3,
		MessageTTL:     4 * time.Second,
		DragThreshold:  5,
		LookupGame:     lookup.GamePokemon,
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gesture is a press followed by a release.
type Gesture struct {
	Press   Point `json:"press"`
	Release Point `json:"release"`
}

// Dragged reports whether either axis moved beyond threshold.
func (g Gesture) Dragged(threshold float64) bool {
	return math.Abs(g.Release.X-g.Press.X) > threshold ||
		math.Abs(g.Release.Y-g.Press.Y) > threshold
}

type albumEntry struct {
	layout *book.Layout
	host   *PageFlipHost
}

type deckEntry struct {
	deck     entities.Deck
	carousel *SlideCarousel
}

// RemoteState is the lookup result pane.
type RemoteState struct {
	Query     string        `json:"query"`
	Game      lookup.Game   `json:"game"`
	RequestID uint64        `json:"request_id"`
	Results   []lookup.Card `json:"results"`
	Message   string        `json:"message,omitempty"`
}

type remoteQuery struct {
	game  lookup.Game
	query string
}

// Controller is one visitor's showcase session.
type Controller struct {
	opts    Options
	catalog Catalog
	lookup  Lookup
	warmer  ImageWarmer
	storeID uint

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	view        View
	albums      []albumEntry
	decks       []deckEntry
	corpus      *search.Corpus
	query       string
	result      search.Result
	highlighted map[search.CardKey]bool

	guard   *search.NavigationGuard
	local   *search.Debouncer[string]
	remote  *search.Debouncer[remoteQuery]
	lookups *search.Sequencer[[]lookup.Card]

	remoteMu      sync.Mutex
	remoteState   RemoteState
	messageExpiry time.Time

	modal *Modal
	now   func() time.Time
}

// NewController creates a session for storeID. lookup and warmer may be nil.
func NewController(catalog Catalog, lk Lookup, warmer ImageWarmer, storeID uint, opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		opts:        opts,
		catalog:     catalog,
		lookup:      lk,
		warmer:      warmer,
		storeID:     storeID,
		ctx:         ctx,
		cancel:      cancel,
		view:        ViewAlbums,
		corpus:      search.NewCorpus(),
		highlighted: make(map[search.CardKey]bool),
		guard:       search.NewNavigationGuard(opts.GuardWindow),
		lookups:     search.NewSequencer[[]lookup.Card](opts.RemoteTimeout),
		modal:       NewModal(),
		now:         time.Now,
	}
	c.local = search.NewDebouncer(opts.LocalDebounce, func(q string) {
		c.Search(q)
	})
	c.remote = search.NewDebouncer(opts.RemoteDebounce, func(rq remoteQuery) {
		c.Lookup(c.ctx, rq.game, rq.query)
	})
	return c
}

// StoreID is the tenant this session shows.
func (c *Controller) StoreID() uint {
	return c.storeID
}

// Load (re)builds every album layout and deck from the catalog. A failure
// leaves the previously loaded state in place.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.LoadAlbums(ctx); err != nil {
		return err
	}
	return c.LoadDecks()
}

// LoadAlbums rebuilds album layouts and hosts. An active query is applied
// again to the new layouts.
func (c *Controller) LoadAlbums(ctx context.Context) error {
	albums, err := c.catalog.GetPublicAlbums(c.storeID)
	if err != nil {
		return fmt.Errorf("load albums: %w", err)
	}

	hostCfg := c.opts.Host.Config(c.opts.ViewportWidth, c.opts.ContainerWidth)
	entries := make([]albumEntry, 0, len(albums))
	for _, a := range albums {
		pages, err := c.catalog.GetAlbumPages(a.ID)
		if err != nil {
			return fmt.Errorf("load pages of album %d: %w", a.ID, err)
		}
		layout := book.BuildLayout(a, pages)
		entries = append(entries, albumEntry{
			layout: layout,
			host:   NewPageFlipHost(layout.Len(), hostCfg, c.guard),
		})

		if c.warmer != nil {
			if err := c.warmer.WarmImages(ctx, a.ID, layout.ImageURLs()); err != nil {
				log.Warn().Err(err).Uint("album_id", a.ID).Msg("Failed to queue image warm-up")
			}
		}
	}

	c.mu.Lock()
	c.albums = entries
	c.rebuildCorpusLocked()
	query := c.query
	c.mu.Unlock()

	if strings.TrimSpace(query) != "" {
		c.Search(query)
	}
	return nil
}

// LoadDecks rebuilds the deck carousels.
func (c *Controller) LoadDecks() error {
	decks, err := c.catalog.GetPublicDecks(c.storeID)
	if err != nil {
		return fmt.Errorf("load decks: %w", err)
	}

	entries := make([]deckEntry, 0, len(decks))
	for _, d := range decks {
		entries = append(entries, deckEntry{deck: d, carousel: NewSlideCarousel(len(d.Cards))})
	}

	c.mu.Lock()
	c.decks = entries
	c.rebuildCorpusLocked()
	query := c.query
	c.mu.Unlock()

	if strings.TrimSpace(query) != "" {
		c.Search(query)
	}
	return nil
}

func (c *Controller) rebuildCorpusLocked() {
	corpus := search.NewCorpus()
	for _, a := range c.albums {
		corpus.AddAlbum(a.layout)
	}
	for _, d := range c.decks {
		corpus.AddDeck(d.deck)
	}
	c.corpus = corpus
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SwitchView activates v and returns current with its view parameter
// rewritten. Entering the decks view reloads deck data.
func (c *Controller) SwitchView(v View, current url.URL) (string, error) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()

	if v == ViewDecks {
		if err := c.LoadDecks(); err != nil {
			return ViewURL(current, v), err
		}
	}
	return ViewURL(current, v), nil
}

// Type handles live input: the local filter runs after the short debounce
// and a remote lookup after the long one. Clearing the input resets the
// filter at once.
func (c *Controller) Type(query string) {
	q := strings.TrimSpace(query)
	if q == "" {
		c.local.Cancel()
		c.Search("")
	} else {
		c.local.Call(query)
	}

	if len([]rune(q)) < c.opts.MinRemoteQuery {
		c.remote.Cancel()
		c.lookups.Cancel()
		c.clearRemote(q)
		return
	}
	c.remote.Call(remoteQuery{game: c.lookupGame(), query: q})
}

// SetLookupGame selects the remote database used by live input.
func (c *Controller) SetLookupGame(g lookup.Game) {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()
	c.opts.LookupGame = g
}

func (c *Controller) lookupGame() lookup.Game {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()
	return c.opts.LookupGame
}

// Search runs one filter pass now: visibility, highlights and navigation of
// every matching album and deck.
func (c *Controller) Search(query string) search.Result {
	c.mu.Lock()
	result := search.Search(query, c.corpus)
	c.query = query
	c.result = result

	c.highlighted = make(map[search.CardKey]bool, len(result.Highlighted))
	for _, k := range result.Highlighted {
		c.highlighted[k] = true
	}

	hosts := make(map[uint]RenderHost, len(c.albums))
	for _, a := range c.albums {
		hosts[a.layout.AlbumID] = a.host
	}
	carousels := make(map[uint]Carousel, len(c.decks))
	for _, d := range c.decks {
		carousels[d.deck.ID] = d.carousel
	}
	c.mu.Unlock()

	for _, nav := range result.Navigation {
		var err error
		switch nav.Kind {
		case search.KindAlbum:
			if h, ok := hosts[nav.CollectionID]; ok {
				err = h.GoToPage(nav.Target, true)
			}
		case search.KindDeck:
			if cr, ok := carousels[nav.CollectionID]; ok {
				err = cr.GoToSlide(nav.Target)
			}
		}
		if err != nil {
			log.Debug().Err(err).Str("kind", string(nav.Kind)).Uint("collection_id", nav.CollectionID).Msg("Navigation skipped")
		}
	}

	return result
}

// Submit is the explicit search action: the local pass runs at once and,
// for a non-empty query, a remote lookup too. An empty query does nothing.
func (c *Controller) Submit(ctx context.Context, game lookup.Game, query string) (search.Result, RemoteState) {
	q := strings.TrimSpace(query)
	if q == "" {
		return c.LastResult(), c.Remote()
	}
	c.local.Cancel()
	c.remote.Cancel()
	result := c.Search(q)
	return result, c.Lookup(ctx, game, q)
}

// LastResult is the most recent filter pass.
func (c *Controller) LastResult() search.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Query is the query of the most recent filter pass.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Highlighted reports whether a card is highlighted by the current query.
func (c *Controller) Highlighted(key search.CardKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted[key]
}

// Lookup queries the remote database as the newest request. Only the
// newest response is applied; cancellations are dropped silently and a
// failure sets a transient message while keeping the previous results.
func (c *Controller) Lookup(ctx context.Context, game lookup.Game, query string) RemoteState {
	if c.lookup == nil {
		return c.Remote()
	}

	out, current := c.lookups.Do(ctx, func(ctx context.Context) ([]lookup.Card, error) {
		return c.lookup.Search(ctx, game, query)
	})
	if !current {
		return c.Remote()
	}

	c.remoteMu.Lock()
	switch out.Status {
	case search.StatusApplied:
		c.remoteState = RemoteState{Query: query, Game: game, RequestID: out.ID, Results: out.Value}
		c.messageExpiry = time.Time{}
	case search.StatusFailed:
		log.Warn().Err(out.Err).Str("query", query).Str("game", string(game)).Msg("Card lookup failed")
		c.remoteState.Message = "Card search failed, try again."
		c.messageExpiry = c.now().Add(c.opts.MessageTTL)
	}
	c.remoteMu.Unlock()

	return c.Remote()
}

// Remote is the lookup result pane. Messages disappear after MessageTTL.
func (c *Controller) Remote() RemoteState {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()

	if c.remoteState.Message != "" && !c.now().Before(c.messageExpiry) {
		c.remoteState.Message = ""
	}
	state := c.remoteState
	state.Results = append([]lookup.Card(nil), c.remoteState.Results...)
	return state
}

func (c *Controller) clearRemote(query string) {
	c.remoteMu.Lock()
	defer c.remoteMu.Unlock()
	c.remoteState = RemoteState{Query: query, Game: c.opts.LookupGame}
	c.messageExpiry = time.Time{}
}

// TurnPage applies a corner drag on an album.
func (c *Controller) TurnPage(albumID uint, page int) (int, error) {
	host, ok := c.host(albumID)
	if !ok {
		return 0, fmt.Errorf("album %d: %w", albumID, ErrNotLoaded)
	}
	if err := host.Turn(page, OriginCornerDrag); err != nil {
		return host.CurrentPage(), err
	}
	return host.CurrentPage(), nil
}

// Slide moves a deck carousel by swipe.
func (c *Controller) Slide(deckID uint, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.decks {
		if d.deck.ID == deckID {
			return d.carousel.GoToSlide(index)
		}
	}
	return fmt.Errorf("deck %d: %w", deckID, ErrNotLoaded)
}

func (c *Controller) host(albumID uint) (*PageFlipHost, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.albums {
		if a.layout.AlbumID == albumID {
			return a.host, true
		}
	}
	return nil, false
}

// card resolves a rendered card.
func (c *Controller) card(key search.CardKey) (entities.CardInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch key.Kind {
	case search.KindAlbum:
		for _, a := range c.albums {
			if a.layout.AlbumID != key.CollectionID {
				continue
			}
			slot, ok := a.layout.Slot(key.Page, key.Index)
			if !ok || !slot.Present {
				return entities.CardInfo{}, false
			}
			return slot.Card, true
		}
	case search.KindDeck:
		for _, d := range c.decks {
			if d.deck.ID != key.CollectionID {
				continue
			}
			if key.Index < 0 || key.Index >= len(d.deck.Cards) {
				return entities.CardInfo{}, false
			}
			return d.deck.Cards[key.Index].CardInfo, true
		}
	}
	return entities.CardInfo{}, false
}

// OpenCard enlarges a card and starts its tilt loop. A gesture that moved
// more than the drag threshold is a page or slide drag, not a click, and
// returns ErrDragged.
func (c *Controller) OpenCard(key search.CardKey, g Gesture) (CardView, error) {
	if g.Dragged(c.opts.DragThreshold) {
		return CardView{}, ErrDragged
	}

	info, ok := c.card(key)
	if !ok {
		return CardView{}, ErrNoImage
	}

	view, err := c.modal.Open(info)
	if err != nil {
		return CardView{}, err
	}

	session := tilt.NewSession(c.opts.Tilt)
	go func() {
		if err := session.Run(c.ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug().Err(err).Msg("Tilt loop ended")
		}
	}()
	if err := c.modal.Activate(session); err != nil {
		session.Close()
		return CardView{}, err
	}
	return view, nil
}

// CloseCard stops the tilt loop and returns the overlay to idle.
func (c *Controller) CloseCard() error {
	return c.modal.Close()
}

func (c *Controller) Modal() *Modal {
	return c.modal
}

// Tilt is the active tilt session, nil when no card is open.
func (c *Controller) Tilt() *tilt.Session {
	return c.modal.Session()
}

// Snapshot is the renderable state of the session.
type Snapshot struct {
	View        View             `json:"view"`
	Query       string           `json:"query"`
	Albums      []AlbumState     `json:"albums"`
	Decks       []DeckState      `json:"decks"`
	Highlighted []search.CardKey `json:"highlighted"`
	Modal       ModalState       `json:"modal"`
	Card        *CardView        `json:"card,omitempty"`
}

type AlbumState struct {
	Layout      *book.Layout    `json:"layout"`
	Host        book.HostConfig `json:"host"`
	CurrentPage int             `json:"current_page"`
	Visible     bool            `json:"visible"`
}

type DeckState struct {
	Deck         entities.Deck `json:"deck"`
	CurrentSlide int           `json:"current_slide"`
	Visible      bool          `json:"visible"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		View:        c.view,
		Query:       c.query,
		Albums:      make([]AlbumState, 0, len(c.albums)),
		Decks:       make([]DeckState, 0, len(c.decks)),
		Highlighted: append([]search.CardKey(nil), c.result.Highlighted...),
	}
	filtered := strings.TrimSpace(c.query) != ""
	for _, a := range c.albums {
		s.Albums = append(s.Albums, AlbumState{
			Layout:      a.layout,
			Host:        a.host.Config(),
			CurrentPage: a.host.CurrentPage(),
			Visible:     !filtered || c.result.VisibleAlbums[a.layout.AlbumID],
		})
	}
	for _, d := range c.decks {
		s.Decks = append(s.Decks, DeckState{
			Deck:         d.deck,
			CurrentSlide: d.carousel.CurrentSlide(),
			Visible:      !filtered || c.result.VisibleDecks[d.deck.ID],
		})
	}
	c.mu.Unlock()

	s.Modal = c.modal.State()
	if s.Modal != ModalIdle {
		card := c.modal.Card()
		s.Card = &card
	}
	return s
}

// Close ends the session: pending input is dropped, the request in flight
// is canceled and an open card is closed.
func (c *Controller) Close() {
	c.local.Cancel()
	c.remote.Cancel()
	c.lookups.Cancel()
	if err := c.modal.Close(); err != nil {
		log.Debug().Err(err).Msg("Closing card overlay")
	}
	c.cancel()
}
