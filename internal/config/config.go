package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Search
		Lookup
		Tilt
		Book
		Images
		Tasks
		Sessions
		Analytics
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		DefaultStore             string // Store shown when the query has none
	}
	Database struct {
		Path string
	}
	Logging struct {
		Level    string
		Pretty   bool   // Human-readable console output
		FilePath string // Rotated log file, disabled when empty
	}
	Search struct {
		LocalDebounce  time.Duration
		RemoteDebounce time.Duration
		RemoteTimeout  time.Duration
		GuardWindow    time.Duration
		MinRemoteQuery int
		MessageTTL     time.Duration
	}
	Lookup struct {
		PokemonBaseURL string
		YugiohBaseURL  string
		Language       string
		DefaultGame    string
	}
	Tilt struct {
		Alpha            float64
		FPS              int
		Range            float64
		OrientationScale float64
		BetaRest         float64
	}
	Book struct {
		Width            int
		Height           int
		MobileBreakpoint int
	}
	Images struct {
		CacheDir      string
		PruneEnabled  bool
		PruneSchedule string // Cron format: "30 3 * * *" = daily at 03:30
		MaxAge        time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Sessions struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Analytics struct {
		Domain     string // Domain registered in Plausible, empty disables analytics
		ScriptURL  string
		Extensions string // Comma-separated, e.g. "outbound-links,file-downloads"
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("default_store", "")
	v.SetDefault("database_path", DefaultDatabasePath)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("log_file", "")

	// Search defaults
	v.SetDefault("search_local_debounce", "300ms")
	v.SetDefault("search_remote_debounce", "800ms")
	v.SetDefault("search_remote_timeout", "15s")
	v.SetDefault("search_guard_window", "1500ms")
	v.SetDefault("search_min_remote_query", 3)
	v.SetDefault("search_message_ttl", "4s")

	// Card lookup defaults
	v.SetDefault("lookup_pokemon_base_url", "https://api.tcgdex.net/v2")
	v.SetDefault("lookup_yugioh_base_url", "https://db.ygoprodeck.com/api/v7")
	v.SetDefault("lookup_language", "es")
	v.SetDefault("lookup_default_game", "pokemon")

	// Tilt defaults
	v.SetDefault("tilt_alpha", 0.1)
	v.SetDefault("tilt_fps", 60)
	v.SetDefault("tilt_range", 20)
	v.SetDefault("tilt_orientation_scale", 1.5)
	v.SetDefault("tilt_beta_rest", 45)

	// Flip book defaults
	v.SetDefault("book_width", 600)
	v.SetDefault("book_height", 420)
	v.SetDefault("book_mobile_breakpoint", 640)

	// Image cache defaults
	v.SetDefault("image_cache_dir", DefaultImageCacheDir)
	v.SetDefault("image_prune_enabled", true)
	v.SetDefault("image_prune_schedule", "30 3 * * *")
	v.SetDefault("image_max_age", "720h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", true)

	// Plausible Analytics defaults
	v.SetDefault("plausible_domain", "")
	v.SetDefault("plausible_script_url", "https://plausible.io/js/script.js")
	v.SetDefault("plausible_extensions", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			DefaultStore:             v.GetString("DEFAULT_STORE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Logging: Logging{
			Level:    v.GetString("LOG_LEVEL"),
			Pretty:   v.GetBool("LOG_PRETTY"),
			FilePath: v.GetString("LOG_FILE"),
		},
		Search: Search{
			LocalDebounce:  v.GetDuration("SEARCH_LOCAL_DEBOUNCE"),
			RemoteDebounce: v.GetDuration("SEARCH_REMOTE_DEBOUNCE"),
			RemoteTimeout:  v.GetDuration("SEARCH_REMOTE_TIMEOUT"),
			GuardWindow:    v.GetDuration("SEARCH_GUARD_WINDOW"),
			MinRemoteQuery: v.GetInt("SEARCH_MIN_REMOTE_QUERY"),
			MessageTTL:     v.GetDuration("SEARCH_MESSAGE_TTL"),
		},
		Lookup: Lookup{
			PokemonBaseURL: v.GetString("LOOKUP_POKEMON_BASE_URL"),
			YugiohBaseURL:  v.GetString("LOOKUP_YUGIOH_BASE_URL"),
			Language:       v.GetString("LOOKUP_LANGUAGE"),
			DefaultGame:    v.GetString("LOOKUP_DEFAULT_GAME"),
		},
		Tilt: Tilt{
			Alpha:            v.GetFloat64("TILT_ALPHA"),
			FPS:              v.GetInt("TILT_FPS"),
			Range:            v.GetFloat64("TILT_RANGE"),
			OrientationScale: v.GetFloat64("TILT_ORIENTATION_SCALE"),
			BetaRest:         v.GetFloat64("TILT_BETA_REST"),
		},
		Book: Book{
			Width:            v.GetInt("BOOK_WIDTH"),
			Height:           v.GetInt("BOOK_HEIGHT"),
			MobileBreakpoint: v.GetInt("BOOK_MOBILE_BREAKPOINT"),
		},
		Images: Images{
			CacheDir:      v.GetString("IMAGE_CACHE_DIR"),
			PruneEnabled:  v.GetBool("IMAGE_PRUNE_ENABLED"),
			PruneSchedule: v.GetString("IMAGE_PRUNE_SCHEDULE"),
			MaxAge:        v.GetDuration("IMAGE_MAX_AGE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sessions: Sessions{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		Analytics: Analytics{
			Domain:     v.GetString("PLAUSIBLE_DOMAIN"),
			ScriptURL:  v.GetString("PLAUSIBLE_SCRIPT_URL"),
			Extensions: v.GetString("PLAUSIBLE_EXTENSIONS"),
		},
	}
}
