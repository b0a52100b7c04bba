package objinv

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultSuggestThreshold is the score (on fuzzy's 0-100 scale) below
// which a candidate is dropped from Suggest's results.
const DefaultSuggestThreshold = 50

// SuggestMatch is one ranked result from Suggest: the object's reference
// string, its fuzzy match score, and its position in the inventory's
// object list. Suggest always returns the full triple — callers pick
// whichever fields they need.
type SuggestMatch struct {
	Ref   string
	Score int
	Index int
}

var advisoryOnce sync.Once

// emitBackendAdvisory logs a one-time notice that suggestions are scored
// by a pure-Go token-set-ratio implementation rather than a faster native
// backend. No cgo-accelerated scorer is wired in, so the advisory always
// fires exactly once per process.
func emitBackendAdvisory() {
	advisoryOnce.Do(func() {
		slog.Warn("objinv: using pure-Go fuzzy matching; suggest may be slow on large inventories")
	})
}

// Suggest ranks every object's reference string against query using
// token-set-ratio fuzzy scoring with ASCII case folding, returning matches
// scoring at or above threshold sorted by descending score. Ties preserve
// the objects' original index order.
func (inv *Inventory) Suggest(query string, threshold int) []SuggestMatch {
	emitBackendAdvisory()

	if threshold == 0 {
		threshold = DefaultSuggestThreshold
	}
	query = strings.ToLower(query)

	matches := make([]SuggestMatch, 0, len(inv.Objects))
	for i, obj := range inv.Objects {
		ref := obj.RefString()
		score := fuzzy.TokenSetRatio(query, strings.ToLower(ref))
		if score < threshold {
			continue
		}
		matches = append(matches, SuggestMatch{Ref: ref, Score: score, Index: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// SuggestDefault is Suggest with the default threshold (50).
func (inv *Inventory) SuggestDefault(query string) []SuggestMatch {
	return inv.Suggest(query, DefaultSuggestThreshold)
}
