package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/server/http/dto"
)

// LoyaltyHandler manages points, claims, and redemption endpoints.
type LoyaltyHandler struct {
	facade PointsFacade
}

// NewLoyaltyHandler constructs LoyaltyHandler.
func NewLoyaltyHandler(facade PointsFacade) *LoyaltyHandler {
	return &LoyaltyHandler{facade: facade}
}

// ClaimDaily handles POST /api/loyalty/claim-daily.
func (h *LoyaltyHandler) ClaimDaily(c *gin.Context) {
	userID := CurrentUserID(c)

	result, err := h.facade.ClaimDaily(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAlreadyClaimedToday):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "daily points already claimed today"})
		case errors.Is(err, domainErrors.ErrConcurrentModification):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "account busy, try again"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{
		Points:        result.Bonus,
		CurrentPoints: result.Balance,
		Streak:        result.StreakLength,
		Tier:          string(result.Tier),
		Message:       "Daily loyalty points claimed",
	})
}

// Points handles GET /api/loyalty/points.
func (h *LoyaltyHandler) Points(c *gin.Context) {
	userID := CurrentUserID(c)

	summary, err := h.facade.Points(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.PointsResponse{
		Points:        summary.Account.Balance,
		CanClaimDaily: summary.CanClaimToday,
		LastClaimed:   summary.Account.LastClaimedAt,
		Streak:        summary.Account.StreakLength,
		PointsWorth:   summary.PointsWorth,
	})
}

// History handles GET /api/loyalty/history.
func (h *LoyaltyHandler) History(c *gin.Context) {
	userID := CurrentUserID(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.facade.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}

	history := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		history = append(history, toLedgerEntryResponse(e))
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{History: history})
}

// Redeem handles POST /api/loyalty/redeem.
func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.facade.Redeem(c.Request.Context(), userID, req.PointsToRedeem)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrBelowMinimumRedemption):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "minimum redemption is 100 points"})
		case errors.Is(err, domainErrors.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "insufficient points balance"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.RedeemResponse{
		DiscountAmount:  result.DiscountAmount,
		RemainingPoints: result.RemainingBalance,
	})
}

func toLedgerEntryResponse(e model.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		PointsDelta: e.PointsDelta,
		Action:      string(e.Action),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
