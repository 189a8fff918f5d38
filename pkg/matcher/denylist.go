package matcher

import "strings"

// Denylist holds normalized terms that denote non-physical or
// non-authentic goods. A listing whose normalized title contains any
// of them is rejected outright.
type Denylist []string

// DefaultDenylist returns the denylist used for free-text query matching.
func DefaultDenylist() Denylist {
	return Denylist{
		"proxy", "custom", "digital", "download", "code", "mtgo",
		"lot", "bundle", "playset", "booster", "box", "case", "empty",
		"replica", "fake",
	}
}

// StructuredDenylist returns the denylist used for structured catalog
// matching. It is a superset of DefaultDenylist.
func StructuredDenylist() Denylist {
	return append(DefaultDenylist(), "reprint")
}

// FirstMatch returns the first denylist term contained in the
// normalized title, if any.
func (d Denylist) FirstMatch(normalizedTitle string) (string, bool) {
	for _, term := range d {
		if strings.Contains(normalizedTitle, term) {
			return term, true
		}
	}
	return "", false
}
