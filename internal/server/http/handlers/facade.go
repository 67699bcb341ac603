package handlers

import (
	"context"

	"github.com/celebration-station/loyalty/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// PointsFacade provides loyalty balance operations exposed via HTTP.
type PointsFacade interface {
	ClaimDaily(ctx context.Context, userID int64) (*model.ClaimResult, error)
	Points(ctx context.Context, userID int64) (*model.PointsSummary, error)
	History(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error)
	Redeem(ctx context.Context, userID int64, points int64) (*model.RedemptionResult, error)
}

// BookingFacade provides booking operations exposed via HTTP.
type BookingFacade interface {
	CreateBooking(ctx context.Context, userID int64, req model.BookingRequest) (*model.Booking, *model.RedemptionResult, error)
	Bookings(ctx context.Context, userID int64) ([]model.Booking, error)
}

// LoyaltyFacade aggregates the full set of operations used across handlers.
type LoyaltyFacade interface {
	AuthFacade
	PointsFacade
	BookingFacade
}
