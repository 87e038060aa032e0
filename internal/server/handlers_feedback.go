package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorpulse/tutorpulse/internal/app"
	"github.com/tutorpulse/tutorpulse/internal/domain"
	apperrors "github.com/tutorpulse/tutorpulse/internal/errors"
)

type submitFeedbackRequest struct {
	SessionID  uuid.UUID `json:"session_id"`
	TutorID    uuid.UUID `json:"tutor_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	StarRating *int      `json:"star_rating"`
	Comment    string    `json:"comment"`
}

type feedbackResponse struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	TutorID    uuid.UUID `json:"tutor_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	StarRating *int      `json:"star_rating,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleSubmitFeedback(c echo.Context) error {
	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.TutorID == uuid.Nil {
		return apperrors.ValidationError("tutor_id is required")
	}

	entry, err := s.app.SubmitFeedback(c.Request().Context(), app.SubmitFeedbackInput{
		SessionID:  req.SessionID,
		TutorID:    req.TutorID,
		AuthorID:   req.AuthorID,
		StarRating: req.StarRating,
		Comment:    req.Comment,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, feedbackResponse{
		ID:         entry.ID,
		SessionID:  entry.SessionID,
		TutorID:    entry.TutorID,
		AuthorID:   entry.AuthorID,
		StarRating: entry.StarRating,
		Comment:    entry.Comment,
		CreatedAt:  entry.CreatedAt,
	})
}

type reputationResponse struct {
	TutorID          uuid.UUID `json:"tutor_id"`
	StarAverage      float64   `json:"star_average"`
	StarCount        int       `json:"star_count"`
	SentimentAverage float64   `json:"sentiment_average"`
	SentimentCount   int       `json:"sentiment_count"`
	ComputedAt       time.Time `json:"computed_at"`
}

func (s *Server) handleGetReputation(c echo.Context) error {
	tutorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid tutor ID").WithContext("id", c.Param("id"))
	}

	summary, err := s.app.GetReputation(c.Request().Context(), tutorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reputationResponse{
		TutorID:          summary.TutorID,
		StarAverage:      summary.StarAverage,
		StarCount:        summary.StarCount,
		SentimentAverage: summary.SentimentAverage,
		SentimentCount:   summary.SentimentCount,
		ComputedAt:       summary.ComputedAt,
	})
}

type tutorResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Subjects    []string  `json:"subjects"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
}

func (s *Server) handleRecommendations(c echo.Context) error {
	subject := c.QueryParam("subject")

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("limit must be an integer").WithContext("limit", raw)
		}
		limit = parsed
	}

	ranked, err := s.app.Recommend(c.Request().Context(), subject, limit)
	if err != nil {
		return err
	}

	resp := make([]tutorResponse, 0, len(ranked))
	for _, t := range ranked {
		resp = append(resp, toTutorResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

func toTutorResponse(t domain.Tutor) tutorResponse {
	return tutorResponse{
		ID:          t.ID,
		DisplayName: t.DisplayName,
		Subjects:    t.Subjects,
		Rating:      t.Rating,
		ReviewCount: t.ReviewCount,
	}
}
