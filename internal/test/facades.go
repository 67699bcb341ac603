package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/celebration-station/loyalty/internal/domain/model"
)

// PointsFacadeStub provides controllable behaviour for loyalty endpoints.
type PointsFacadeStub struct {
	ClaimFn   func(context.Context, int64) (*model.ClaimResult, error)
	PointsFn  func(context.Context, int64) (*model.PointsSummary, error)
	HistoryFn func(context.Context, int64, int) ([]model.LedgerEntry, error)
	RedeemFn  func(context.Context, int64, int64) (*model.RedemptionResult, error)
}

// ClaimDaily delegates to provided function or returns a first-day claim.
func (s PointsFacadeStub) ClaimDaily(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, userID)
	}
	return &model.ClaimResult{Bonus: 50, Balance: 50, StreakLength: 1, Tier: model.TierSilver}, nil
}

// Points returns configured summary or default data.
func (s PointsFacadeStub) Points(ctx context.Context, userID int64) (*model.PointsSummary, error) {
	if s.PointsFn != nil {
		return s.PointsFn(ctx, userID)
	}
	return &model.PointsSummary{
		Account:       &model.PointsAccount{UserID: userID, Balance: 100, StreakLength: 2},
		CanClaimToday: true,
		PointsWorth:   100,
	}, nil
}

// History returns preconfigured ledger slice.
func (s PointsFacadeStub) History(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID, limit)
	}
	return []model.LedgerEntry{{ID: 1, UserID: userID, PointsDelta: 50, Action: model.ActionDailyClaim, CreatedAt: time.Unix(0, 0)}}, nil
}

// Redeem executes configured redemption handler.
func (s PointsFacadeStub) Redeem(ctx context.Context, userID int64, points int64) (*model.RedemptionResult, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, userID, points)
	}
	return &model.RedemptionResult{PointsRedeemed: points, DiscountAmount: model.DiscountFor(points)}, nil
}

// BookingFacadeStub simulates booking operations.
type BookingFacadeStub struct {
	CreateFn   func(context.Context, int64, model.BookingRequest) (*model.Booking, *model.RedemptionResult, error)
	BookingsFn func(context.Context, int64) ([]model.Booking, error)
}

// CreateBooking delegates to provided function or returns a priced booking.
func (s BookingFacadeStub) CreateBooking(ctx context.Context, userID int64, req model.BookingRequest) (*model.Booking, *model.RedemptionResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, req)
	}
	booking := &model.Booking{
		ID:          1,
		UserID:      userID,
		VenueID:     req.VenueID,
		EventDate:   req.EventDate,
		GuestCount:  req.GuestCount,
		TotalAmount: 1000,
	}
	return booking, nil, nil
}

// Bookings returns preconfigured bookings for given user.
func (s BookingFacadeStub) Bookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	if s.BookingsFn != nil {
		return s.BookingsFn(ctx, userID)
	}
	return []model.Booking{{ID: 1, UserID: userID, VenueID: 1, TotalAmount: 1000}}, nil
}

// WorkerFacadeStub mimics audit worker interactions with loyalty facade.
type WorkerFacadeStub struct {
	Accounts   [][]model.PointsAccount
	AccountsFn func(context.Context, int) ([]model.PointsAccount, error)
	SumFn      func(context.Context, int64) (int64, error)
	Summed     []int64

	mu        sync.Mutex
	callCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// AccountsForAudit returns batches from configured queue.
func (s *WorkerFacadeStub) AccountsForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error) {
	if s.AccountsFn != nil {
		return s.AccountsFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Accounts) {
		return s.Accounts[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// LedgerSum records the audited user and returns configured totals.
func (s *WorkerFacadeStub) LedgerSum(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	s.Summed = append(s.Summed, userID)
	s.mu.Unlock()
	if s.SumFn != nil {
		return s.SumFn(ctx, userID)
	}
	return 0, nil
}

// VenueCatalogStub fetches venue pricing for tests.
type VenueCatalogStub struct {
	FetchFn func(context.Context, int64) (*model.Venue, error)
	Venue   *model.Venue
	Err     error
}

// Fetch returns configured response or a default venue.
func (s VenueCatalogStub) Fetch(ctx context.Context, venueID int64) (*model.Venue, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, venueID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Venue != nil {
		return s.Venue, nil
	}
	return &model.Venue{ID: venueID, Name: "Stub Hall", BasePrice: 1000, PerGuest: 50}, nil
}
