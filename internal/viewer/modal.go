package viewer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cardshelf/showcase/internal/entities"
	"github.com/cardshelf/showcase/internal/tilt"
)

var (
	// ErrNoImage is returned for cards that have nothing to enlarge.
	ErrNoImage = errors.New("card has no image")

	ErrInvalidTransition = errors.New("invalid modal transition")
)

type ModalState string

const (
	ModalIdle    ModalState = "idle"
	ModalOpening ModalState = "opening"
	ModalActive  ModalState = "active"
	ModalClosing ModalState = "closing"
)

// Fallback labels for empty card fields.
const (
	DefaultCardName = "Carta de Colección"
	EmptyField      = "-"
)

// HoloEffects are the visual modifiers a card may carry.
var HoloEffects = []string{"super-rare", "secret-rare", "ghost-rare", "foil", "rainbow", entities.HoloCustomTexture}

// CardView is the enlarged card as displayed.
type CardView struct {
	ImageURL  string `json:"image_url"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	Expansion string `json:"expansion"`
	Condition string `json:"condition"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	HoloClass string `json:"holo_class,omitempty"`
	MaskURL   string `json:"mask_url,omitempty"`
}

// NewCardView fills display defaults. Only a custom-texture card keeps its
// mask.
func NewCardView(card entities.CardInfo) (CardView, error) {
	if !hasRealImage(card.ImageURL) {
		return CardView{}, ErrNoImage
	}

	v := CardView{
		ImageURL:  card.ImageURL,
		Name:      orDefault(card.Name, DefaultCardName),
		Rarity:    orDefault(card.Rarity, EmptyField),
		Expansion: orDefault(card.Expansion, EmptyField),
		Condition: orDefault(card.Condition, EmptyField),
		Quantity:  "1",
		Price:     orDefault(card.Price, EmptyField),
		HoloClass: card.HoloEffect,
	}
	if card.Quantity > 0 {
		v.Quantity = strconv.Itoa(card.Quantity)
	}
	if card.HoloEffect == entities.HoloCustomTexture {
		v.MaskURL = card.MaskURL
	}
	return v, nil
}

func hasRealImage(src string) bool {
	return src != "" && !strings.Contains(src, "placeholder")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Modal is the enlarged-card overlay: Idle -> Opening -> Active -> Closing
// -> Idle. The tilt session exists only while Active.
type Modal struct {
	mu      sync.Mutex
	state   ModalState
	card    CardView
	session *tilt.Session
}

func NewModal() *Modal {
	return &Modal{state: ModalIdle}
}

// Open assigns a card image. Any visual modifier of the previous card is
// cleared before the new card's are applied.
func (m *Modal) Open(card entities.CardInfo) (CardView, error) {
	view, err := NewCardView(card)
	if err != nil {
		return CardView{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalIdle {
		return CardView{}, fmt.Errorf("open from %s: %w", m.state, ErrInvalidTransition)
	}

	m.card = view
	m.state = ModalOpening
	return view, nil
}

// Activate attaches the running tilt session.
func (m *Modal) Activate(s *tilt.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalOpening {
		return fmt.Errorf("activate from %s: %w", m.state, ErrInvalidTransition)
	}
	m.session = s
	m.state = ModalActive
	return nil
}

// Close stops the tilt session, detaching its listeners, and returns to
// Idle. Closing an idle modal is a no-op.
func (m *Modal) Close() error {
	m.mu.Lock()
	switch m.state {
	case ModalIdle:
		m.mu.Unlock()
		return nil
	case ModalClosing:
		m.mu.Unlock()
		return fmt.Errorf("close from %s: %w", m.state, ErrInvalidTransition)
	}
	m.state = ModalClosing
	s := m.session
	m.session = nil
	m.mu.Unlock()

	if s != nil {
		s.Close()
	}

	m.mu.Lock()
	m.state = ModalIdle
	m.card = CardView{}
	m.mu.Unlock()
	return nil
}

func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Card is the card on display, zero when idle.
func (m *Modal) Card() CardView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.card
}

// Session is the active tilt session, nil unless Active.
func (m *Modal) Session() *tilt.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}
