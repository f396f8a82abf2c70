package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardshelf/showcase/internal/config"
)

func TestBuildScriptURL(t *testing.T) {
	tests := []struct {
		name       string
		baseURL    string
		extensions []string
		expected   string
	}{
		{
			name:     "no extensions",
			baseURL:  DefaultScriptURL,
			expected: DefaultScriptURL,
		},
		{
			name:       "multiple extensions",
			baseURL:    DefaultScriptURL,
			extensions: []string{"outbound-links", "file-downloads"},
			expected:   "https://plausible.io/js/script.outbound-links.file-downloads.js",
		},
		{
			name:       "self-hosted with extension",
			baseURL:    "https://analytics.example.com/js/script.js",
			extensions: []string{"tagged-events"},
			expected:   "https://analytics.example.com/js/script.tagged-events.js",
		},
		{
			name:       "URL without .js suffix unchanged",
			baseURL:    "https://example.com/track",
			extensions: []string{"outbound-links"},
			expected:   "https://example.com/track",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildScriptURL(tt.baseURL, tt.extensions))
		})
	}
}

func TestNewPlausibleConfig(t *testing.T) {
	t.Run("disabled without domain", func(t *testing.T) {
		cfg := NewPlausibleConfig(config.Analytics{})
		assert.False(t, cfg.Enabled)
		assert.Equal(t, DefaultScriptURL, cfg.ScriptURL)
		assert.Empty(t, cfg.ScriptTag())
		assert.Empty(t, cfg.Origin())
	})

	t.Run("unknown extensions dropped", func(t *testing.T) {
		cfg := NewPlausibleConfig(config.Analytics{
			Domain:     "cards.example.com",
			ScriptURL:  "https://stats.example.com/js/script.js",
			Extensions: " outbound-links , bogus,,hash",
		})
		require.True(t, cfg.Enabled)
		assert.Equal(t, []string{"outbound-links", "hash"}, cfg.Extensions)
		assert.Equal(t, "https://stats.example.com", cfg.Origin())
	})
}

func TestGenerateScriptTag(t *testing.T) {
	cfg := &PlausibleConfig{
		Enabled:   true,
		Domain:    `cards.example.com"><b>`,
		ScriptURL: DefaultScriptURL,
	}

	tag := string(GenerateScriptTag(cfg))
	assert.Contains(t, tag, `src="https://plausible.io/js/script.js"`)
	assert.Contains(t, tag, "&#34;&gt;&lt;b&gt;", "domain is escaped")
	assert.NotContains(t, tag, "<b>")
}

func TestScriptOrigin(t *testing.T) {
	assert.Equal(t, "https://plausible.io", ScriptOrigin(DefaultScriptURL))
	assert.Empty(t, ScriptOrigin("/js/script.js"))
	assert.Empty(t, ScriptOrigin("::"))
}

func TestNilConfig(t *testing.T) {
	var cfg *PlausibleConfig
	assert.Empty(t, cfg.ScriptTag())
	assert.Empty(t, cfg.Origin())
}
