package sentiment

// Term valences on the [-4, 4] scale used by rule-based valence analyzers.
// The vocabulary is tuned for tutoring feedback: teaching quality,
// reliability, and session experience terms dominate.
var lexicon = map[string]float64{
	// positive
	"amazing":       2.8,
	"awesome":       3.1,
	"best":          3.2,
	"brilliant":     2.8,
	"clear":         1.1,
	"dedicated":     1.5,
	"effective":     1.3,
	"encouraging":   1.9,
	"engaging":      1.7,
	"enjoy":         2.0,
	"enjoyable":     1.9,
	"enjoyed":       2.0,
	"excellent":     2.7,
	"fantastic":     2.6,
	"friendly":      2.2,
	"fun":           2.3,
	"glad":          2.0,
	"good":          1.9,
	"great":         3.1,
	"happy":         2.7,
	"helped":        1.7,
	"helpful":       1.9,
	"helps":         1.7,
	"impressed":     2.2,
	"improved":      1.5,
	"improvement":   1.3,
	"insightful":    1.8,
	"kind":          2.4,
	"knowledgeable": 1.6,
	"love":          3.2,
	"loved":         2.9,
	"nice":          1.8,
	"organized":     1.1,
	"outstanding":   3.0,
	"passionate":    1.7,
	"patient":       1.5,
	"perfect":       2.7,
	"pleased":       2.0,
	"prepared":      0.9,
	"professional":  1.3,
	"progress":      1.2,
	"punctual":      1.0,
	"recommend":     1.5,
	"recommended":   1.4,
	"responsive":    1.2,
	"smart":         1.7,
	"superb":        3.0,
	"supportive":    1.9,
	"thank":         1.5,
	"thanks":        1.9,
	"thorough":      1.1,
	"wonderful":     2.7,

	// negative
	"awful":          -2.0,
	"bad":            -2.5,
	"boring":         -1.3,
	"cancelled":      -0.8,
	"canceled":       -0.8,
	"confused":       -1.2,
	"confusing":      -1.2,
	"disappointed":   -1.6,
	"disappointing":  -2.2,
	"dreadful":       -2.6,
	"frustrated":     -2.0,
	"frustrating":    -2.1,
	"hate":           -2.7,
	"hated":          -2.6,
	"horrible":       -2.5,
	"ignored":        -1.4,
	"late":           -0.9,
	"lazy":           -1.5,
	"mediocre":       -0.6,
	"missed":         -0.9,
	"poor":           -2.1,
	"rude":           -2.0,
	"scam":           -2.6,
	"slow":           -0.8,
	"terrible":       -2.5,
	"unhelpful":      -1.8,
	"unprepared":     -1.4,
	"unprofessional": -2.0,
	"unreliable":     -1.6,
	"useless":        -1.8,
	"waste":          -1.8,
	"worst":          -3.1,
	"wrong":          -1.6,
}

// Degree modifiers shift the valence of the term they precede. Positive
// entries intensify, negative entries dampen.
var boosters = map[string]float64{
	"absolutely":   0.293,
	"completely":   0.293,
	"especially":   0.293,
	"extremely":    0.293,
	"highly":       0.293,
	"incredibly":   0.293,
	"really":       0.293,
	"so":           0.293,
	"super":        0.293,
	"totally":      0.293,
	"truly":        0.293,
	"very":         0.293,
	"barely":       -0.293,
	"marginally":   -0.293,
	"occasionally": -0.293,
	"slightly":     -0.293,
	"somewhat":     -0.293,
}

// Negators flip the valence of a nearby term.
var negators = map[string]struct{}{
	"aint":      {},
	"cannot":    {},
	"cant":      {},
	"couldnt":   {},
	"didnt":     {},
	"doesnt":    {},
	"dont":      {},
	"hardly":    {},
	"isnt":      {},
	"neither":   {},
	"never":     {},
	"no":        {},
	"nor":       {},
	"not":       {},
	"shouldnt":  {},
	"wasnt":     {},
	"werent":    {},
	"without":   {},
	"wont":      {},
	"wouldnt":   {},
}
