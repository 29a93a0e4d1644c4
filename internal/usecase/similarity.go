package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

const (
	fuzzyEditDistance = 1   // tokens within this edit distance count as matched
	fuzzyMinTokenLen  = 4   // shorter tokens never fuzzy-match
	substringBonus    = 10.0
)

// listingStopWords holds tokens that carry no matching signal in
// marketplace titles: articles, units, packaging and promo noise in both
// Portuguese and English.
var listingStopWords = map[string]bool{
	// Articles / prepositions
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "for": true, "with": true,
	"de": true, "da": true, "do": true, "para": true, "com": true,
	"em": true, "por": true, "e": true, "ou": true,
	// Units and sizes
	"cm": true, "mm": true, "ml": true, "kg": true, "un": true,
	"pol": true, "litro": true, "litros": true, "metros": true,
	"pcs": true, "pc": true, "pct": true, "oz": true, "inch": true,
	// Packaging / quantity
	"kit": true, "par": true, "pack": true, "unidade": true,
	"unidades": true, "conjunto": true, "jogo": true, "caixa": true,
	"set": true, "lot": true, "lote": true,
	// Marketplace promo noise
	"frete": true, "gratis": true, "grátis": true, "envio": true,
	"imediato": true, "pronta": true, "entrega": true, "promocao": true,
	"promoção": true, "oferta": true, "barato": true, "novo": true,
	"nova": true, "original": true, "shipping": true, "free": true,
	"hot": true, "sale": true, "new": true, "2024": true, "2025": true,
}

// TitleSimilarity scores how similar two listing titles are, 0-100.
// A weighted blend of source-token coverage (most important), target
// coverage, and Jaccard overlap, plus a bonus for an exact substring
// containment. Fuzzy token matches (edit distance 1) count at 80% weight.
func TitleSimilarity(titleA, titleB string) float64 {
	tokensA := tokenizeTitle(titleA)
	tokensB := tokenizeTitle(titleB)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	coverageA := tokenCoverage(tokensA, tokensB)
	coverageB := tokenCoverage(tokensB, tokensA)

	union := tokenUnion(tokensA, tokensB)
	intersect := exactIntersection(tokensA, tokensB)
	jaccard := float64(intersect) / float64(union)

	score := (coverageA*0.60 + coverageB*0.20 + jaccard*0.20) * 100

	aLower := normalizeTitle(titleA)
	bLower := normalizeTitle(titleB)
	if len(aLower) > 3 && (strings.Contains(bLower, aLower) || strings.Contains(aLower, bLower)) {
		score += substringBonus
	}

	return clampScore(score)
}

// KeywordCompatibility is the looser textual-fallback metric: the fraction
// of source title tokens present in the candidate title (fuzzy allowed),
// 0-100. No structural weighting; it only measures keyword overlap.
func KeywordCompatibility(source, candidate string) float64 {
	sourceTokens := tokenizeTitle(source)
	candidateTokens := tokenizeTitle(candidate)

	if len(sourceTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	return clampScore(tokenCoverage(sourceTokens, candidateTokens) * 100)
}

// normalizeTitle lowercases and collapses a title for substring comparison.
func normalizeTitle(s string) string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// tokenizeTitle splits a title into normalized lowercase tokens, dropping
// punctuation, stop words, single characters, and pure numbers.
func tokenizeTitle(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if listingStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// tokenCoverage returns the weighted fraction of `from` tokens found in
// `in`. Exact matches weigh 1.0, fuzzy matches 0.8.
func tokenCoverage(from, in []string) float64 {
	set := make(map[string]bool, len(in))
	for _, t := range in {
		set[t] = true
	}

	var matched float64
	for _, t := range from {
		if set[t] {
			matched += 1.0
			continue
		}
		if fuzzyContains(t, in) {
			matched += 0.8
		}
	}
	return matched / float64(len(from))
}

// fuzzyContains reports whether any token of the pool is within the fuzzy
// edit distance of the given token.
func fuzzyContains(token string, pool []string) bool {
	if len(token) < fuzzyMinTokenLen {
		return false
	}
	for _, other := range pool {
		if len(other) < fuzzyMinTokenLen {
			continue
		}
		lenDiff := len(token) - len(other)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > fuzzyEditDistance {
			continue
		}
		if levenshteinDistance(token, other) <= fuzzyEditDistance {
			return true
		}
	}
	return false
}

// exactIntersection counts tokens present in both slices.
func exactIntersection(tokens1, tokens2 []string) int {
	set := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set[t] = true
	}

	seen := make(map[string]bool)
	count := 0
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			count++
			seen[t] = true
		}
	}
	return count
}

// tokenUnion returns the count of unique tokens across both slices.
func tokenUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
