// Package slug derives URL-safe identifiers from titles and resolves
// collisions within a scope.
package slug

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultMaxLength    = 50
	defaultMaxAttempts  = 5
	defaultSuffixLength = 4
	fallbackTokenLength = 12
	suffixAlphabet      = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ExistsFunc reports whether a candidate slug is already taken in the scope
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Slugify lowercases title, folds accented letters to ASCII and joins words
// with single hyphens. Characters other than letters, digits, underscores,
// hyphens and whitespace are dropped. maxLen of 0 means unlimited length.
func Slugify(title string, maxLen int) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}

	s := strings.Trim(b.String(), "-_")
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-_")
	}
	return s
}

// Generator produces slugs that are unique within a scope
type Generator struct {
	maxLength    int
	maxAttempts  int
	suffixLength int
	random       func(n int) string
}

// NewGenerator creates a Generator. Non-positive values fall back to defaults.
func NewGenerator(maxLength, maxAttempts, suffixLength int) *Generator {
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if suffixLength <= 0 {
		suffixLength = defaultSuffixLength
	}
	return &Generator{
		maxLength:    maxLength,
		maxAttempts:  maxAttempts,
		suffixLength: suffixLength,
		random:       randomSuffix,
	}
}

// Derive returns the base slug for title, truncated to the configured length
func (g *Generator) Derive(title string) string {
	return Slugify(title, g.maxLength)
}

// Unique returns base if it is free. Otherwise it appends short random
// suffixes until one is free, and after maxAttempts tries it settles on a
// suffix taken from a random UUID. Collisions never produce an error; only
// failures of exists are returned.
func (g *Generator) Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base != "" {
		taken, err := exists(ctx, base)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", base, err)
		}
		if !taken {
			return base, nil
		}
	}

	for i := 0; i < g.maxAttempts; i++ {
		candidate := join(base, g.random(g.suffixLength))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:fallbackTokenLength]
	return join(base, token), nil
}

func join(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
