package matcher

import (
	"fmt"
	"strings"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

const (
	nameTokenWeight    = 0.55
	setTokenWeight     = 0.20
	numberExactBonus   = 0.35
	numberPartialBonus = 0.20
	maxFieldTokens     = 6
)

// StructuredMatcher scores listings against a structured card
// reference (name, set, number). It is deterministic and
// side-effect-free.
type StructuredMatcher struct {
	denylist Denylist
}

// NewStructuredMatcher creates a StructuredMatcher with the given
// denylist.
func NewStructuredMatcher(denylist Denylist) *StructuredMatcher {
	return &StructuredMatcher{denylist: denylist}
}

// Score matches a listing title against the card reference, combining
// weighted name/set token overlap with a flat card-number bonus. The
// banned-term short-circuit behaves exactly as in QueryMatcher.
func (m *StructuredMatcher) Score(ref domain.CardReference, title string) domain.MatchResult {
	titleNorm := Normalize(title)

	if term, banned := m.denylist.FirstMatch(titleNorm); banned {
		return domain.MatchResult{Signals: []domain.Signal{
			{Name: SignalBannedWord, Value: term, OK: false},
		}}
	}

	signals := []domain.Signal{{Name: SignalBannedWord, Value: "none", OK: true}}

	var confidence float64

	nameContribution, nameSignal := overlap(SignalNameTokens, ref.Name, titleNorm, nameTokenWeight)
	confidence += nameContribution
	signals = append(signals, nameSignal)

	if Normalize(ref.SetName) == "" {
		// No set on the reference: vacuously satisfied, contributes nothing.
		signals = append(signals, domain.Signal{Name: SignalSetTokens, Value: "none", OK: true})
	} else {
		setContribution, setSignal := overlap(SignalSetTokens, ref.SetName, titleNorm, setTokenWeight)
		confidence += setContribution
		signals = append(signals, setSignal)
	}

	numberContribution, numberSignal := matchNumber(ref.Number, titleNorm)
	confidence += numberContribution
	signals = append(signals, numberSignal)

	return domain.MatchResult{
		Confidence: clamp01(confidence),
		Signals:    signals,
	}
}

// overlap computes the weighted token-hit ratio of a reference field
// against the normalized title.
func overlap(signal, field, titleNorm string, weight float64) (float64, domain.Signal) {
	toks := tokens(Normalize(field))
	if len(toks) == 0 {
		return 0, domain.Signal{Name: signal, Value: "0/0", OK: false}
	}

	hits := 0
	for _, t := range toks {
		if strings.Contains(titleNorm, t) {
			hits++
		}
	}

	denom := len(toks)
	if denom > maxFieldTokens {
		denom = maxFieldTokens
	}
	ratio := clamp01(float64(hits) / float64(denom))

	return weight * ratio, domain.Signal{
		Name:  signal,
		Value: fmt.Sprintf("%d/%d", hits, len(toks)),
		OK:    hits > 0,
	}
}

// matchNumber rewards an exact card-number substring match, falling
// back to a smaller bonus when any numeric "/"-part appears verbatim.
// A reference without a number is satisfied by convention.
func matchNumber(number, titleNorm string) (float64, domain.Signal) {
	numNorm := Normalize(number)
	if numNorm == "" {
		return 0, domain.Signal{Name: SignalNumberMatch, Value: "none", OK: true}
	}

	if strings.Contains(titleNorm, numNorm) {
		return numberExactBonus, domain.Signal{Name: SignalNumberMatch, Value: "exact", OK: true}
	}

	for _, part := range strings.Split(numNorm, "/") {
		if part != "" && containsDigit(part) && strings.Contains(titleNorm, part) {
			return numberPartialBonus, domain.Signal{Name: SignalNumberMatch, Value: "partial", OK: true}
		}
	}

	return 0, domain.Signal{Name: SignalNumberMatch, Value: "missing", OK: false}
}
