package usecase

import (
	"context"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/domain/repository"
)

// VenueCatalog resolves venue pricing from the external catalog service.
type VenueCatalog interface {
	Fetch(ctx context.Context, venueID int64) (*model.Venue, error)
}

// BookingUseCase creates bookings, folding in an optional redemption.
type BookingUseCase struct {
	bookings repository.BookingRepository
	venues   VenueCatalog
}

// NewBookingUseCase constructs BookingUseCase.
func NewBookingUseCase(bookings repository.BookingRepository, venues VenueCatalog) *BookingUseCase {
	return &BookingUseCase{bookings: bookings, venues: venues}
}

// Create validates the request, prices it against the venue catalog, and
// persists booking plus loyalty effects in one transaction. Validation
// failures happen before any mutation.
func (u *BookingUseCase) Create(ctx context.Context, userID int64, req model.BookingRequest) (*model.Booking, *model.RedemptionResult, error) {
	if req.GuestCount <= 0 || req.EventDate.IsZero() {
		return nil, nil, domainErrors.ErrInvalidAmount
	}
	if req.PointsToRedeem < 0 {
		return nil, nil, domainErrors.ErrInvalidAmount
	}

	venue, err := u.venues.Fetch(ctx, req.VenueID)
	if err != nil {
		return nil, nil, err
	}
	total := venue.Quote(req.GuestCount)

	if req.PointsToRedeem > 0 {
		if req.PointsToRedeem < model.MinRedeemPoints {
			return nil, nil, domainErrors.ErrBelowMinimumRedemption
		}
		// A discount larger than the booking itself makes no sense.
		if model.DiscountFor(req.PointsToRedeem) > total {
			return nil, nil, domainErrors.ErrInvalidAmount
		}
	}

	booking := &model.Booking{
		UserID:      userID,
		VenueID:     venue.ID,
		EventDate:   req.EventDate,
		GuestCount:  req.GuestCount,
		TotalAmount: total,
	}
	return u.bookings.Create(ctx, booking, req.PointsToRedeem)
}

// ListByUser returns the user's bookings, newest first.
func (u *BookingUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return u.bookings.ListByUser(ctx, userID)
}
