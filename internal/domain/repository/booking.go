package repository

import (
	"context"

	"github.com/celebration-station/loyalty/internal/domain/model"
)

// BookingRepository persists bookings together with their loyalty effects.
type BookingRepository interface {
	// Create persists the booking. When pointsToRedeem is positive the
	// redemption debit, the booking insert, and the booking bonus credit
	// all commit in one transaction; a failure anywhere rolls back the
	// whole operation.
	Create(ctx context.Context, booking *model.Booking, pointsToRedeem int64) (*model.Booking, *model.RedemptionResult, error)

	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
}
