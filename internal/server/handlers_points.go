package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorpulse/tutorpulse/internal/domain"
	apperrors "github.com/tutorpulse/tutorpulse/internal/errors"
)

type awardPointsRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
}

type ledgerEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Type        string    `json:"type"`
	Amount      int       `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLedgerEntryResponse(e domain.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func (s *Server) handleAwardPoints(c echo.Context) error {
	var req awardPointsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == uuid.Nil {
		return apperrors.ValidationError("user_id is required")
	}

	entry, err := s.app.AwardPoints(c.Request().Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLedgerEntryResponse(*entry))
}

func (s *Server) handleBalance(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithContext("id", c.Param("id"))
	}

	balance, err := s.app.Balance(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": balance,
	})
}

func (s *Server) handlePointsHistory(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithContext("id", c.Param("id"))
	}

	entries, err := s.app.PointsHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toLedgerEntryResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

type rewardResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	PointsRequired int       `json:"points_required"`
	StockQuantity  int       `json:"stock_quantity"`
	ExpiryDays     int       `json:"expiry_days,omitempty"`
}

func (s *Server) handleListRewards(c echo.Context) error {
	rewards, err := s.app.ListRewards(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]rewardResponse, 0, len(rewards))
	for _, r := range rewards {
		resp = append(resp, rewardResponse{
			ID:             r.ID,
			Title:          r.Title,
			Description:    r.Description,
			PointsRequired: r.PointsRequired,
			StockQuantity:  r.StockQuantity,
			ExpiryDays:     r.ExpiryDays,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

type redeemRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	RewardID uuid.UUID `json:"reward_id"`
}

func (s *Server) handleRedeem(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == uuid.Nil || req.RewardID == uuid.Nil {
		return apperrors.ValidationError("user_id and reward_id are required")
	}

	code, err := s.app.Redeem(c.Request().Context(), req.UserID, req.RewardID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"voucher_code": code})
}

type redemptionResponse struct {
	ID          uuid.UUID  `json:"id"`
	RewardID    uuid.UUID  `json:"reward_id"`
	VoucherCode string     `json:"voucher_code"`
	Status      string     `json:"status"`
	RedeemedAt  time.Time  `json:"redeemed_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (s *Server) handleVouchers(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid user ID").WithContext("id", c.Param("id"))
	}

	vouchers, err := s.app.Vouchers(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]redemptionResponse, 0, len(vouchers))
	for _, v := range vouchers {
		resp = append(resp, redemptionResponse{
			ID:          v.ID,
			RewardID:    v.RewardID,
			VoucherCode: v.VoucherCode,
			Status:      string(v.Status),
			RedeemedAt:  v.RedeemedAt,
			ExpiresAt:   v.ExpiresAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleUseVoucher(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return apperrors.ValidationError("voucher code is required")
	}

	if err := s.app.MarkVoucherUsed(c.Request().Context(), code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "used"})
}
