// Package sessions keeps one anonymous viewer id per browser so a visitor's
// showcase state survives between requests.
package sessions

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/cardshelf/showcase/internal/config"
)

// KeyViewerID is the session key holding the viewer id.
const KeyViewerID = "viewer_id"

// Manager wraps scs.SessionManager with viewer helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager backed by the sessions table of sqlDB.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Sessions) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "showcase_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// ViewerID returns the viewer id of the request's session, minting and
// storing a new one on first use. created reports whether it was minted.
func (m *Manager) ViewerID(ctx context.Context) (id string, created bool) {
	if id = m.GetString(ctx, KeyViewerID); id != "" {
		return id, false
	}
	id = uuid.NewString()
	m.Put(ctx, KeyViewerID, id)
	return id, true
}

// Forget drops the viewer id; the next request starts a new viewer.
func (m *Manager) Forget(ctx context.Context) error {
	return m.Destroy(ctx)
}
