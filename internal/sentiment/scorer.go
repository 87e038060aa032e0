package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	// negationScalar flips and dampens a negated valence.
	negationScalar = -0.74
	// capsScalar is added (sign-aligned) to all-caps emphasized terms.
	capsScalar = 0.733
	// exclamationScalar is added per trailing '!', capped at maxExclamations.
	exclamationScalar = 0.292
	maxExclamations   = 4
	// questionScalar is added per '?' beyond the first, capped.
	questionScalar = 0.18
	maxQuestions   = 3
	// lookback is how many preceding tokens are scanned for negators and
	// degree modifiers.
	lookback = 3
	// normalizationAlpha flattens the valence sum into [-1, 1].
	normalizationAlpha = 15.0
	// maxTokens bounds work on pathological inputs; everything past the
	// cap is ignored rather than failing.
	maxTokens = 512
)

// Score maps a feedback comment to a sentiment score in [0, 5].
//
// Empty or whitespace-only text scores 0.0: it carries no sentiment signal
// and callers must exclude it from aggregates instead of treating it as
// neutral. For non-empty text, the compound polarity in [-1, 1] is
// rescaled via (compound+1)/2*5 and rounded to two decimals, so a neutral
// comment lands at 2.5.
func Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	compound := compoundPolarity(text)
	return round2((compound + 1) / 2 * 5)
}

// compoundPolarity computes the normalized valence sum of the text.
func compoundPolarity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	mixedCase := hasMixedCase(tokens)
	butIndex := indexOf(tokens, "but")

	var sum float64
	for i, tok := range tokens {
		valence, ok := lexicon[tok.normalized]
		if !ok {
			continue
		}

		if tok.allCaps && mixedCase {
			valence += sign(valence) * capsScalar
		}

		valence = applyContext(tokens, i, valence)

		// Clauses after a contrastive "but" dominate the overall tone.
		if butIndex >= 0 {
			if i < butIndex {
				valence *= 0.5
			} else if i > butIndex {
				valence *= 1.5
			}
		}

		sum += valence
	}

	if sum != 0 {
		sum += sign(sum) * punctuationEmphasis(text)
	}

	return normalize(sum)
}

// applyContext scans the preceding tokens for negators and degree
// modifiers. Modifiers closer to the term weigh more; a single negator
// flips the valence.
func applyContext(tokens []token, i int, valence float64) float64 {
	negated := false
	for dist := 1; dist <= lookback && i-dist >= 0; dist++ {
		prev := tokens[i-dist].normalized
		if _, ok := negators[prev]; ok && !negated {
			valence *= negationScalar
			negated = true
			continue
		}
		if boost, ok := boosters[prev]; ok {
			damp := 1.0 - float64(dist-1)*0.05
			valence += sign(valence) * boost * damp
		}
	}
	return valence
}

// punctuationEmphasis measures emphasis from '!' and repeated '?'.
func punctuationEmphasis(text string) float64 {
	exclamations := strings.Count(text, "!")
	if exclamations > maxExclamations {
		exclamations = maxExclamations
	}

	questions := strings.Count(text, "?")
	if questions > 0 {
		questions--
	}
	if questions > maxQuestions {
		questions = maxQuestions
	}

	return float64(exclamations)*exclamationScalar + float64(questions)*questionScalar
}

// normalize maps an unbounded valence sum into [-1, 1].
func normalize(sum float64) float64 {
	norm := sum / math.Sqrt(sum*sum+normalizationAlpha)
	if norm > 1 {
		return 1
	}
	if norm < -1 {
		return -1
	}
	return norm
}

type token struct {
	normalized string
	allCaps    bool
}

// tokenize lowercases and strips everything except letters, digits, and
// in-word apostrophes (which are dropped so "don't" matches "dont").
// Arbitrary Unicode, emoji, and oversized inputs pass through safely;
// anything the lexicon does not know simply contributes nothing.
func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))

	for _, field := range fields {
		if len(tokens) == maxTokens {
			break
		}

		var b strings.Builder
		letters, uppers := 0, 0
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
				letters++
				if unicode.IsUpper(r) {
					uppers++
				}
			}
		}
		if b.Len() == 0 {
			continue
		}

		tokens = append(tokens, token{
			normalized: b.String(),
			allCaps:    letters > 1 && letters == uppers,
		})
	}

	return tokens
}

// hasMixedCase reports whether the text mixes all-caps and non-caps
// tokens; shouting only counts as emphasis when it stands out.
func hasMixedCase(tokens []token) bool {
	caps := 0
	for _, t := range tokens {
		if t.allCaps {
			caps++
		}
	}
	return caps > 0 && caps < len(tokens)
}

func indexOf(tokens []token, word string) int {
	for i, t := range tokens {
		if t.normalized == word {
			return i
		}
	}
	return -1
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
