package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"char base", []string{"char", "base"}},
		{"  Char   BASE  ", []string{"char", "base"}},
		{"\tPOKÉMON\n", []string{"pokémon"}},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatchesText(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		query    string
		expected bool
	}{
		{"all keywords present", "Charizard Base Set", "char base", true},
		{"order does not matter", "Charizard Base Set", "set char", true},
		{"case insensitive", "CHARIZARD", "charizard", true},
		{"one keyword missing", "Charizard Base Set", "char jungle", false},
		{"empty field", "", "char", false},
		{"empty field single letter", "", "a", false},
		{"unicode folding", "Pokémon Center", "POKÉMON", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesText(tt.field, Tokenize(tt.query)))
		})
	}
}

func TestMatchesText_EmptyFieldNeverMatches(t *testing.T) {
	for _, q := range []string{"a", "char base", "x y z", "é"} {
		assert.False(t, MatchesText("", Tokenize(q)), "query %q", q)
	}
}
