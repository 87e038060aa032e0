// Package ranking orders tutor projections for recommendation listings.
package ranking

import (
	"sort"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

// DefaultLimit is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultLimit = 3

// Rank filters and orders tutors for a subject. Only available tutors
// whose subject set contains the requested subject (exact, case-sensitive)
// qualify. Qualifying tutors are ordered by rating descending, ties broken
// by review count descending; the sort is stable so identical inputs
// always produce identical output. The result is truncated to limit
// (DefaultLimit when limit is not positive) and may be shorter when fewer
// tutors qualify.
//
// Rank is a pure function of its inputs: it never mutates the given slice
// and performs no I/O.
func Rank(tutors []domain.Tutor, subject string, limit int) []domain.Tutor {
	if limit <= 0 {
		limit = DefaultLimit
	}

	qualified := make([]domain.Tutor, 0, len(tutors))
	for _, t := range tutors {
		if t.IsAvailable && t.TeachesSubject(subject) {
			qualified = append(qualified, t)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		if qualified[i].Rating != qualified[j].Rating {
			return qualified[i].Rating > qualified[j].Rating
		}
		return qualified[i].ReviewCount > qualified[j].ReviewCount
	})

	if len(qualified) > limit {
		qualified = qualified[:limit]
	}
	return qualified
}
