package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/celebration-station/loyalty/internal/adapter/venues"
	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/server/http/dto"
)

// BookingHandler manages booking endpoints.
type BookingHandler struct {
	facade BookingFacade
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(facade BookingFacade) *BookingHandler {
	return &BookingHandler{facade: facade}
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, redemption, err := h.facade.CreateBooking(c.Request.Context(), userID, model.BookingRequest{
		VenueID:        req.VenueID,
		EventDate:      req.EventDate,
		GuestCount:     req.GuestCount,
		PointsToRedeem: req.PointsToRedeem,
	})
	if err != nil {
		var rateLimited venues.TooManyRequestsError
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "unknown venue"})
		case errors.Is(err, domainErrors.ErrInvalidAmount):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid booking request"})
		case errors.Is(err, domainErrors.ErrBelowMinimumRedemption):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "minimum redemption is 100 points"})
		case errors.Is(err, domainErrors.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "insufficient points balance"})
		case errors.As(err, &rateLimited):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "venue catalog unavailable, try again"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(*booking, redemption != nil))
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	bookings, err := h.facade.Bookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}
	if len(bookings) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b, b.LoyaltyPointsRedeemed > 0))
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b model.Booking, discountApplied bool) dto.BookingResponse {
	return dto.BookingResponse{
		ID:                    b.ID,
		VenueID:               b.VenueID,
		EventDate:             b.EventDate,
		GuestCount:            b.GuestCount,
		TotalAmount:           b.TotalAmount,
		LoyaltyPointsRedeemed: b.LoyaltyPointsRedeemed,
		DiscountAmount:        b.DiscountAmount,
		FinalAmount:           b.FinalAmount(),
		DiscountApplied:       discountApplied,
		CreatedAt:             b.CreatedAt,
	}
}
