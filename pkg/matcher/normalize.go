// Package matcher scores how well a marketplace listing matches an
// intended card, producing an explainable confidence in [0,1].
package matcher

import "strings"

// Normalize lowercases s and strips everything other than lowercase
// letters, digits, "/" and space, collapsing whitespace runs. It is
// total and idempotent; an empty input normalizes to "".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true // trims leading spaces
	for _, r := range strings.ToLower(s) {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '/'
		if keep {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// tokens splits a normalized string into whitespace-separated tokens
// longer than two characters.
func tokens(s string) []string {
	var out []string
	for _, t := range strings.Fields(s) {
		if len(t) > 2 {
			out = append(out, t)
		}
	}
	return out
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
