package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorpulse/tutorpulse/internal/domain"
)

func tutor(name string, subjects []string, rating float64, reviews int, available bool) domain.Tutor {
	return domain.Tutor{
		ID:          uuid.New(),
		DisplayName: name,
		Subjects:    subjects,
		Rating:      rating,
		ReviewCount: reviews,
		IsAvailable: available,
	}
}

func names(tutors []domain.Tutor) []string {
	out := make([]string, len(tutors))
	for i, t := range tutors {
		out[i] = t.DisplayName
	}
	return out
}

func TestRankFiltersSubjectAndAvailability(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"Math"}, 4.9, 10, true),
		tutor("B", []string{"Math"}, 4.9, 20, true),
		tutor("C", []string{"Physics"}, 5.0, 5, true),
		tutor("D", []string{"Math"}, 5.0, 50, false),
	}

	result := Rank(tutors, "Math", 3)
	assert.Equal(t, []string{"B", "A"}, names(result))
}

func TestRankTieBreakByReviewCount(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"Math"}, 4.9, 10, true),
		tutor("B", []string{"Math"}, 4.9, 20, true),
	}

	result := Rank(tutors, "Math", 3)
	require.Len(t, result, 2)
	assert.Equal(t, "B", result[0].DisplayName)
	assert.Equal(t, "A", result[1].DisplayName)
}

func TestRankSubjectMatchIsCaseSensitive(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"math"}, 4.9, 10, true),
	}

	assert.Empty(t, Rank(tutors, "Math", 3))
	assert.Len(t, Rank(tutors, "math", 3), 1)
}

func TestRankSortOrder(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("low", []string{"Math"}, 3.2, 100, true),
		tutor("high", []string{"Math"}, 4.8, 2, true),
		tutor("mid", []string{"Math"}, 4.1, 30, true),
	}

	result := Rank(tutors, "Math", 10)
	require.Len(t, result, 3)
	for i := 1; i < len(result); i++ {
		prev, cur := result[i-1], result[i]
		ordered := prev.Rating > cur.Rating ||
			(prev.Rating == cur.Rating && prev.ReviewCount >= cur.ReviewCount)
		assert.True(t, ordered, "result not sorted at index %d", i)
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"Math"}, 4.0, 1, true),
		tutor("B", []string{"Math"}, 4.1, 1, true),
		tutor("C", []string{"Math"}, 4.2, 1, true),
		tutor("D", []string{"Math"}, 4.3, 1, true),
	}

	result := Rank(tutors, "Math", 2)
	assert.Equal(t, []string{"D", "C"}, names(result))
}

func TestRankDefaultLimit(t *testing.T) {
	var tutors []domain.Tutor
	for i := 0; i < 5; i++ {
		tutors = append(tutors, tutor("T", []string{"Math"}, float64(i), i, true))
	}

	assert.Len(t, Rank(tutors, "Math", 0), DefaultLimit)
	assert.Len(t, Rank(tutors, "Math", -1), DefaultLimit)
}

func TestRankFewerThanLimit(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"Math"}, 4.0, 1, true),
	}

	result := Rank(tutors, "Math", 3)
	assert.Len(t, result, 1)
}

func TestRankStableOnEqualKeys(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("first", []string{"Math"}, 4.5, 10, true),
		tutor("second", []string{"Math"}, 4.5, 10, true),
		tutor("third", []string{"Math"}, 4.5, 10, true),
	}

	first := Rank(tutors, "Math", 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, names(first), names(Rank(tutors, "Math", 5)))
	}
	// Stable sort keeps input order on fully equal keys.
	assert.Equal(t, []string{"first", "second", "third"}, names(first))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("low", []string{"Math"}, 1.0, 1, true),
		tutor("high", []string{"Math"}, 5.0, 1, true),
	}

	Rank(tutors, "Math", 3)
	assert.Equal(t, "low", tutors[0].DisplayName)
	assert.Equal(t, "high", tutors[1].DisplayName)
}

func TestRankMultiSubjectTutor(t *testing.T) {
	tutors := []domain.Tutor{
		tutor("A", []string{"Math", "Physics", "Chemistry"}, 4.0, 1, true),
	}

	assert.Len(t, Rank(tutors, "Physics", 3), 1)
	assert.Empty(t, Rank(tutors, "Biology", 3))
}
