// Package sentiment scores free-text feedback comments on a 5-point scale.
//
// The scorer is a lexicon and rule based valence analyzer: per-term
// valences are adjusted for negation, degree modifiers, contrastive
// conjunctions, capitalization, and punctuation emphasis, summed, and
// normalized to a compound polarity in [-1, 1] which is then rescaled to
// [0, 5]. Scoring is pure and deterministic: the same input always yields
// the same score, with no I/O and no shared state.
package sentiment
