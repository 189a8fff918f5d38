package matcher

import (
	"fmt"
	"strings"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Signal names recorded as match evidence.
const (
	SignalBannedWord  = "banned_word"
	SignalQueryTokens = "query_tokens"
	SignalNumberToken = "number_token"
	SignalNameTokens  = "name_tokens"
	SignalSetTokens   = "set_tokens"
	SignalNumberMatch = "number_match"
)

const (
	queryTokenWeight = 0.80
	numberTokenBonus = 0.15
	maxQueryTokens   = 8
)

// QueryMatcher scores listings against a free-text query by token
// overlap. It is deterministic and side-effect-free.
type QueryMatcher struct {
	denylist Denylist
}

// NewQueryMatcher creates a QueryMatcher with the given denylist.
func NewQueryMatcher(denylist Denylist) *QueryMatcher {
	return &QueryMatcher{denylist: denylist}
}

// Score matches a listing title against the query. A banned term in
// the normalized title short-circuits to confidence 0 with a single
// signal naming the term; no further evidence is evaluated.
func (m *QueryMatcher) Score(query, title string) domain.MatchResult {
	titleNorm := Normalize(title)
	queryNorm := Normalize(query)

	if term, banned := m.denylist.FirstMatch(titleNorm); banned {
		return domain.MatchResult{Signals: []domain.Signal{
			{Name: SignalBannedWord, Value: term, OK: false},
		}}
	}

	signals := []domain.Signal{{Name: SignalBannedWord, Value: "none", OK: true}}

	toks := tokens(queryNorm)
	if len(toks) == 0 {
		return domain.MatchResult{Signals: []domain.Signal{
			{Name: SignalQueryTokens, Value: "0/0", OK: false},
		}}
	}

	hits := 0
	for _, t := range toks {
		if strings.Contains(titleNorm, t) {
			hits++
		}
	}

	denom := len(toks)
	if denom > maxQueryTokens {
		denom = maxQueryTokens
	}
	ratio := float64(hits) / float64(denom)

	confidence := queryTokenWeight * clamp01(ratio)
	signals = append(signals, domain.Signal{
		Name:  SignalQueryTokens,
		Value: fmt.Sprintf("%d/%d", hits, len(toks)),
		OK:    hits > 0,
	})

	// Tokens carrying a digit (e.g. "4/102") are strong identity
	// evidence: a verbatim hit earns a flat bonus.
	var numTokens []string
	for _, t := range toks {
		if containsDigit(t) {
			numTokens = append(numTokens, t)
		}
	}
	if len(numTokens) > 0 {
		numHit := false
		for _, t := range numTokens {
			if strings.Contains(titleNorm, t) {
				numHit = true
				break
			}
		}
		if numHit {
			confidence += numberTokenBonus
		}
		value := "missing"
		if numHit {
			value = "matched"
		}
		signals = append(signals, domain.Signal{
			Name:  SignalNumberToken,
			Value: value,
			OK:    numHit,
		})
	}

	return domain.MatchResult{
		Confidence: clamp01(confidence),
		Signals:    signals,
	}
}
