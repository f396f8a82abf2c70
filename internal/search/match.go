// Package search filters the loaded albums and decks by keyword, marks the
// matching cards and resolves where each matching collection should turn to.
// It also holds the timing pieces the viewer needs around a search: the
// navigation guard window, input debouncing and latest-only ordering of
// remote lookups.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lower folds s to lowercase with Unicode rules ("POKÉMON" -> "pokémon").
// A Caser is stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Tokenize lowercases the query and splits it on whitespace, dropping empty
// tokens. An empty result means "no filter".
func Tokenize(query string) []string {
	return strings.Fields(lower(query))
}

// MatchesText reports whether every keyword is a substring of the lowercased
// field. An empty field never matches.
func MatchesText(field string, keywords []string) bool {
	if field == "" {
		return false
	}
	return matchesLowered(lower(field), keywords)
}

func matchesLowered(field string, keywords []string) bool {
	if field == "" {
		return false
	}
	for _, k := range keywords {
		if !strings.Contains(field, k) {
			return false
		}
	}
	return true
}
