package entities

import (
	"time"
)

// SlotsPerPage is the number of card positions on an album page (3x3 grid).
const SlotsPerPage = 9

// HoloCustomTexture is the holo effect that uses a per-card mask image.
const HoloCustomTexture = "custom-texture"

// Store is a tenant whose public albums and decks are showcased.
type Store struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreName string    `gorm:"uniqueIndex;size:100" json:"store_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Album struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoreID       uint      `gorm:"index" json:"store_id"`
	Title         string    `gorm:"size:256" json:"title"`
	CoverImageURL string    `gorm:"size:2048" json:"cover_image_url,omitempty"`
	CoverColor    string    `gorm:"size:16" json:"cover_color,omitempty"`
	BackImageURL  string    `gorm:"size:2048" json:"back_image_url,omitempty"`
	BackColor     string    `gorm:"size:16" json:"back_color,omitempty"`
	IsPublic      *bool     `json:"is_public,omitempty"` // nil is treated as public
	Pages         []Page    `gorm:"foreignKey:AlbumID" json:"pages,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Page struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AlbumID   uint       `gorm:"index" json:"album_id"`
	PageIndex int        `gorm:"index" json:"page_index"`
	Slots     []CardSlot `gorm:"foreignKey:PageID" json:"slots,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CardInfo holds the descriptive fields shared by album slots and deck cards.
type CardInfo struct {
	Name       string `gorm:"size:256" json:"name"`
	ImageURL   string `gorm:"size:2048" json:"image_url,omitempty"`
	Rarity     string `gorm:"size:100" json:"rarity,omitempty"`
	HoloEffect string `gorm:"size:50" json:"holo_effect,omitempty"`
	MaskURL    string `gorm:"column:custom_mask_url;size:2048" json:"custom_mask_url,omitempty"`
	Expansion  string `gorm:"size:256" json:"expansion,omitempty"`
	Condition  string `gorm:"size:50" json:"condition,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Price      string `gorm:"size:50" json:"price,omitempty"`
}

type CardSlot struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	PageID    uint     `gorm:"index" json:"page_id"`
	SlotIndex int      `json:"slot_index"`
	CardInfo  CardInfo `gorm:"embedded" json:"card"`
}

type Deck struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StoreID   uint       `gorm:"index" json:"store_id"`
	Name      string     `gorm:"size:256" json:"name"`
	IsPublic  *bool      `json:"is_public,omitempty"`
	Cards     []DeckCard `gorm:"foreignKey:DeckID" json:"cards,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type DeckCard struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	DeckID   uint     `gorm:"index" json:"deck_id"`
	Position int      `json:"position"`
	CardInfo CardInfo `gorm:"embedded" json:"card"`
}

func (Store) TableName() string {
	return "stores"
}

func (CardSlot) TableName() string {
	return "card_slots"
}

func (DeckCard) TableName() string {
	return "deck_cards"
}

// Public reports whether the album is visible on the showcase.
// Only an explicit false hides it.
func (a Album) Public() bool {
	return a.IsPublic == nil || *a.IsPublic
}

// Public reports whether the deck is visible on the showcase.
func (d Deck) Public() bool {
	return d.IsPublic == nil || *d.IsPublic
}
