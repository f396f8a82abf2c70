// Package database provides the data access layer for the showcase.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── catalog/         # Read-only catalog queries and the seed importer
//
// The showcase never writes to the catalog at request time. The only
// write path is catalog.Importer, used by the `seed` command.
//
//	db, err := database.NewDatabase("./showcase.db")
//	repo := catalog.NewRepository(db.DB)
//	store, err := repo.GetStoreByName("kanto-cards")
package database
