// Package catalog provides read-only queries over stores, albums and decks.
//
// # Usage
//
//	repo := catalog.NewRepository(db)
//	albums, err := repo.GetPublicAlbums(store.ID)
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cardshelf/showcase/internal/entities"
)

// ErrStoreNotFound is returned when no store matches the requested name.
var ErrStoreNotFound = errors.New("store not found")

// Repository handles catalog reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetStoreByName looks a store up by its public name.
func (r *Repository) GetStoreByName(name string) (*entities.Store, error) {
	var store entities.Store
	err := r.db.Where("store_name = ?", name).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get store %q: %w", name, err)
	}
	return &store, nil
}

// GetPublicAlbums returns the store's albums ordered by id.
// Albums without an explicit public flag are treated as public.
func (r *Repository) GetPublicAlbums(storeID uint) ([]entities.Album, error) {
	var albums []entities.Album
	err := r.db.
		Where("store_id = ? AND (is_public IS NULL OR is_public = ?)", storeID, true).
		Order("id ASC").
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("list albums for store %d: %w", storeID, err)
	}
	return albums, nil
}

// GetAlbumByID returns a single album without its pages.
func (r *Repository) GetAlbumByID(id uint) (*entities.Album, error) {
	var album entities.Album
	if err := r.db.First(&album, id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// GetAlbumPages returns an album's pages ordered by page index with their
// slots preloaded in slot order.
func (r *Repository) GetAlbumPages(albumID uint) ([]entities.Page, error) {
	var pages []entities.Page
	err := r.db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot_index ASC")
		}).
		Where("album_id = ?", albumID).
		Order("page_index ASC").
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("list pages for album %d: %w", albumID, err)
	}
	return pages, nil
}

// GetPublicDecks returns the store's public decks, newest first, with their
// cards in position order.
func (r *Repository) GetPublicDecks(storeID uint) ([]entities.Deck, error) {
	var decks []entities.Deck
	err := r.db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("store_id = ? AND (is_public IS NULL OR is_public = ?)", storeID, true).
		Order("created_at DESC, id DESC").
		Find(&decks).Error
	if err != nil {
		return nil, fmt.Errorf("list decks for store %d: %w", storeID, err)
	}
	return decks, nil
}
