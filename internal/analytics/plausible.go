// Package analytics renders the optional Plausible script for the public
// showcase page.
package analytics

import (
	"html/template"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cardshelf/showcase/internal/config"
)

// DefaultScriptURL is the hosted Plausible script.
const DefaultScriptURL = "https://plausible.io/js/script.js"

// PlausibleConfig is the effective analytics setup.
type PlausibleConfig struct {
	Enabled    bool
	Domain     string
	ScriptURL  string
	Extensions []string
}

// NewPlausibleConfig resolves cfg. Analytics is enabled when a domain is set;
// unknown script extensions are dropped with a warning.
func NewPlausibleConfig(cfg config.Analytics) *PlausibleConfig {
	scriptURL := cfg.ScriptURL
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}

	var extensions []string
	for _, ext := range parseExtensions(cfg.Extensions) {
		if !IsValidExtension(ext) {
			log.Warn().Str("extension", ext).Msg("Ignoring unknown Plausible extension")
			continue
		}
		extensions = append(extensions, ext)
	}

	return &PlausibleConfig{
		Enabled:    cfg.Domain != "",
		Domain:     cfg.Domain,
		ScriptURL:  scriptURL,
		Extensions: extensions,
	}
}

// ScriptTag returns the script element, or nothing when analytics is off.
func (p *PlausibleConfig) ScriptTag() template.HTML {
	if p == nil {
		return ""
	}
	return GenerateScriptTag(p)
}

// Origin is the scheme and host the script loads from, for the CSP.
func (p *PlausibleConfig) Origin() string {
	if p == nil || !p.Enabled {
		return ""
	}
	return ScriptOrigin(p.ScriptURL)
}

// BuildScriptURL constructs the Plausible script URL with extensions
func BuildScriptURL(baseURL string, extensions []string) string {
	if len(extensions) == 0 {
		return baseURL
	}

	// script.js becomes script.ext1.ext2.js
	if base, found := strings.CutSuffix(baseURL, ".js"); found {
		return base + "." + strings.Join(extensions, ".") + ".js"
	}

	return baseURL
}

// GenerateScriptTag returns safe HTML for the Plausible script tag
func GenerateScriptTag(cfg *PlausibleConfig) template.HTML {
	if !cfg.Enabled || cfg.Domain == "" {
		return ""
	}

	scriptURL := BuildScriptURL(cfg.ScriptURL, cfg.Extensions)

	return template.HTML(`<script defer data-domain="` + template.HTMLEscapeString(cfg.Domain) + `" src="` + template.HTMLEscapeString(scriptURL) + `"></script>`)
}

// ScriptOrigin extracts scheme://host from a script URL.
func ScriptOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// parseExtensions splits comma-separated extensions and trims whitespace
func parseExtensions(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidExtensions lists the known Plausible script extensions
var ValidExtensions = []string{
	"outbound-links",
	"file-downloads",
	"tagged-events",
	"hash",
	"compat",
	"local",
	"manual",
	"pageview-props",
	"revenue",
}

// IsValidExtension checks if an extension is known
func IsValidExtension(ext string) bool {
	return slices.Contains(ValidExtensions, ext)
}
