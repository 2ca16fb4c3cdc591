// Package textutil provides small text helpers shared by the CLI and the
// pipeline stages.
package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ternary is a generic conditional helper that returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// DeckTitle derives a human-readable title from a deck path for log lines and
// status output: the base name with separators collapsed to spaces, title
// cased.
func DeckTitle(deckPath string) string {
	if deckPath == "" {
		return "Untitled Deck"
	}
	base := filepath.Base(deckPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Deck"
	}
	return cases.Title(language.Und).String(title)
}
