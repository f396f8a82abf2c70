package sessions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cardshelf/showcase/internal/config"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	m, err := NewManager(sqlDB, config.Sessions{Lifetime: time.Hour})
	require.NoError(t, err)
	return m
}

func viewerRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/whoami", func(c *gin.Context) {
		id, created := m.ViewerID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id, "created": created})
	})
	router.POST("/forget", func(c *gin.Context) {
		_ = m.Forget(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewManager(t *testing.T) {
	m := setupManager(t)

	assert.Equal(t, "showcase_session", m.Cookie.Name)
	assert.True(t, m.Cookie.HttpOnly)
	assert.False(t, m.Cookie.Secure)
	assert.Equal(t, time.Hour, m.Lifetime)
	assert.Equal(t, 30*time.Minute, m.IdleTimeout)
}

func TestViewerID(t *testing.T) {
	m := setupManager(t)
	router := viewerRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":true`)

	cookie := sessionCookie(t, w, "showcase_session")
	require.NotNil(t, cookie, "first visit sets the session cookie")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Contains(t, w2.Body.String(), `"created":false`)

	var first, second struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &second))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestForget(t *testing.T) {
	m := setupManager(t)
	router := viewerRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookie := sessionCookie(t, w, "showcase_session")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/forget", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	cleared := sessionCookie(t, w, "showcase_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"created":true`)
}
