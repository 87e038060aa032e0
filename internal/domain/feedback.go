package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is a single piece of feedback left after a tutoring session.
// Entries are immutable once created. StarRating and Comment are both
// optional: a rating-only entry carries no comment and vice versa.
type FeedbackEntry struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	TutorID    uuid.UUID
	AuthorID   uuid.UUID
	StarRating *int // 1..5, nil when the author left no rating
	Comment    string
	CreatedAt  time.Time
}

// HasRating reports whether the entry carries a star rating.
func (f *FeedbackEntry) HasRating() bool {
	return f.StarRating != nil
}

// ReputationSummary is the derived reputation of one tutor. The star and
// sentiment aggregates are independent: their counts differ whenever
// feedback carries a rating without a comment or a comment without a
// rating. A summary is always replaced wholesale by a full recomputation,
// never patched field by field.
type ReputationSummary struct {
	TutorID          uuid.UUID
	StarAverage      float64
	StarCount        int
	SentimentAverage float64
	SentimentCount   int
	ComputedAt       time.Time
}

// Tutor is the read-only projection consumed by the recommendation ranker.
type Tutor struct {
	ID          uuid.UUID
	DisplayName string
	Subjects    []string
	Rating      float64
	ReviewCount int
	IsAvailable bool
}

// TeachesSubject reports whether the tutor offers the given subject.
// Matching is exact and case-sensitive, as stored.
func (t *Tutor) TeachesSubject(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
