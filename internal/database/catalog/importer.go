package catalog

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cardshelf/showcase/internal/entities"
)

// StoreCatalog is one store with its full album and deck trees, as produced
// by the seed loader.
type StoreCatalog struct {
	Store  entities.Store
	Albums []entities.Album
	Decks  []entities.Deck
}

// ImportResult summarises a seed run.
type ImportResult struct {
	Stores int `json:"stores"`
	Albums int `json:"albums"`
	Pages  int `json:"pages"`
	Slots  int `json:"slots"`
	Decks  int `json:"decks"`
	Cards  int `json:"cards"`
}

// Importer writes seed catalogs. It replaces everything a store owns so
// re-running a seed file is idempotent.
type Importer struct {
	db *gorm.DB
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

func (i *Importer) Import(catalogs []StoreCatalog) (ImportResult, error) {
	var result ImportResult

	err := i.db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range catalogs {
			store := sc.Store
			if err := tx.Where("store_name = ?", store.StoreName).FirstOrCreate(&store).Error; err != nil {
				return fmt.Errorf("upsert store %q: %w", store.StoreName, err)
			}
			if err := purgeStore(tx, store.ID); err != nil {
				return fmt.Errorf("purge store %q: %w", store.StoreName, err)
			}
			result.Stores++

			for _, album := range sc.Albums {
				album.ID = 0
				album.StoreID = store.ID
				if err := tx.Create(&album).Error; err != nil {
					return fmt.Errorf("create album %q: %w", album.Title, err)
				}
				result.Albums++
				result.Pages += len(album.Pages)
				for _, p := range album.Pages {
					result.Slots += len(p.Slots)
				}
			}

			for _, deck := range sc.Decks {
				deck.ID = 0
				deck.StoreID = store.ID
				if err := tx.Create(&deck).Error; err != nil {
					return fmt.Errorf("create deck %q: %w", deck.Name, err)
				}
				result.Decks++
				result.Cards += len(deck.Cards)
			}
		}
		return nil
	})

	return result, err
}

func purgeStore(tx *gorm.DB, storeID uint) error {
	albumIDs := tx.Model(&entities.Album{}).Select("id").Where("store_id = ?", storeID)
	pageIDs := tx.Model(&entities.Page{}).Select("id").Where("album_id IN (?)", albumIDs)
	deckIDs := tx.Model(&entities.Deck{}).Select("id").Where("store_id = ?", storeID)

	steps := []func() error{
		func() error { return tx.Where("page_id IN (?)", pageIDs).Delete(&entities.CardSlot{}).Error },
		func() error { return tx.Where("album_id IN (?)", albumIDs).Delete(&entities.Page{}).Error },
		func() error { return tx.Where("store_id = ?", storeID).Delete(&entities.Album{}).Error },
		func() error { return tx.Where("deck_id IN (?)", deckIDs).Delete(&entities.DeckCard{}).Error },
		func() error { return tx.Where("store_id = ?", storeID).Delete(&entities.Deck{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
