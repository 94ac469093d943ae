package arbitrage

import (
	"strings"

	"kalshi-alpha/pkg/types"
)

// minTokenOverlap is the number of shared title tokens required to accept
// a cross-venue pair. This heuristic is deliberately weak; production
// deployments would replace it with curated mappings.
const minTokenOverlap = 3

// Pair is one matched exchange/external market pair.
type Pair struct {
	Exchange types.Market
	External ExternalMarket
}

// titleTokens lowercases a title, strips trailing punctuation from each
// word, and drops words of length <= 3.
func titleTokens(title string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(title) {
		cleaned := strings.ToLower(strings.Trim(word, "?.!,"))
		if len(cleaned) > 3 {
			tokens[cleaned] = struct{}{}
		}
	}
	return tokens
}

func overlap(a, b map[string]struct{}) int {
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}

// MatchPairs pairs exchange markets with external markets by token
// overlap. First external match wins; no many-to-many pairing.
func MatchPairs(exchange []types.Market, external []ExternalMarket) []Pair {
	externalTokens := make([]map[string]struct{}, len(external))
	for i := range external {
		externalTokens[i] = titleTokens(external[i].DisplayTitle())
	}

	var pairs []Pair
	for _, em := range exchange {
		et := titleTokens(em.Title)
		if len(et) == 0 {
			continue
		}

		for i := range external {
			if overlap(et, externalTokens[i]) >= minTokenOverlap {
				pairs = append(pairs, Pair{Exchange: em, External: external[i]})
				break
			}
		}
	}

	return pairs
}
