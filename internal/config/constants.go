package config

// Default paths for databases and caches
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./showcase.db"

	// DefaultImageCacheDir is where proxied card and cover images are kept
	DefaultImageCacheDir = "./image-cache"
)
