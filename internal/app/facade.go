package app

import (
	"context"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/usecase"
)

type LoyaltyFacade struct {
	auth     *usecase.AuthUseCase
	loyalty  *usecase.LoyaltyUseCase
	bookings *usecase.BookingUseCase
}

func NewLoyaltyFacade(auth *usecase.AuthUseCase, loyalty *usecase.LoyaltyUseCase, bookings *usecase.BookingUseCase) *LoyaltyFacade {
	return &LoyaltyFacade{auth: auth, loyalty: loyalty, bookings: bookings}
}

func (f *LoyaltyFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *LoyaltyFacade) ClaimDaily(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	return f.loyalty.ClaimDaily(ctx, userID)
}

func (f *LoyaltyFacade) Points(ctx context.Context, userID int64) (*model.PointsSummary, error) {
	summary, err := f.loyalty.Points(ctx, userID)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return &model.PointsSummary{Account: &model.PointsAccount{}, CanClaimToday: true}, nil
		}
		return nil, err
	}
	return summary, nil
}

func (f *LoyaltyFacade) History(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
	return f.loyalty.History(ctx, userID, limit)
}

func (f *LoyaltyFacade) Redeem(ctx context.Context, userID int64, points int64) (*model.RedemptionResult, error) {
	return f.loyalty.Redeem(ctx, userID, points)
}

func (f *LoyaltyFacade) CreateBooking(ctx context.Context, userID int64, req model.BookingRequest) (*model.Booking, *model.RedemptionResult, error) {
	return f.bookings.Create(ctx, userID, req)
}

func (f *LoyaltyFacade) Bookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	return f.bookings.ListByUser(ctx, userID)
}

func (f *LoyaltyFacade) AccountsForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error) {
	return f.loyalty.AccountsForAudit(ctx, limit)
}

func (f *LoyaltyFacade) LedgerSum(ctx context.Context, userID int64) (int64, error) {
	return f.loyalty.LedgerSum(ctx, userID)
}
