package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/domain/repository"
)

const (
	// DefaultHistoryLimit bounds getHistory when the caller does not ask
	// for a specific page size.
	DefaultHistoryLimit = 20
	maxHistoryLimit     = 100

	// claimRetries bounds re-runs after a detected write race. The
	// second attempt re-reads fresh state, so one retry is enough to
	// turn a race into a clean AlreadyClaimedToday.
	claimRetries = 1
)

// LoyaltyUseCase covers daily claims, balance queries, and redemptions.
type LoyaltyUseCase struct {
	accounts repository.AccountRepository
	ledger   repository.LedgerRepository
	now      func() time.Time
}

// NewLoyaltyUseCase constructs LoyaltyUseCase with the wall clock.
func NewLoyaltyUseCase(accounts repository.AccountRepository, ledger repository.LedgerRepository) *LoyaltyUseCase {
	return &LoyaltyUseCase{accounts: accounts, ledger: ledger, now: time.Now}
}

// NewLoyaltyUseCaseWithClock allows tests to control the current time.
func NewLoyaltyUseCaseWithClock(accounts repository.AccountRepository, ledger repository.LedgerRepository, now func() time.Time) *LoyaltyUseCase {
	return &LoyaltyUseCase{accounts: accounts, ledger: ledger, now: now}
}

// ClaimDaily grants today's bonus, sized by the user's streak tier.
func (u *LoyaltyUseCase) ClaimDaily(ctx context.Context, userID int64) (*model.ClaimResult, error) {
	for attempt := 0; ; attempt++ {
		result, err := u.accounts.ClaimDaily(ctx, userID, u.now())
		if err == nil {
			return result, nil
		}
		if errors.Is(err, domainErrors.ErrConcurrentModification) && attempt < claimRetries {
			continue
		}
		return nil, err
	}
}

// Points returns balance and claim eligibility without side effects.
func (u *LoyaltyUseCase) Points(ctx context.Context, userID int64) (*model.PointsSummary, error) {
	account, err := u.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.PointsSummary{
		Account:       account,
		CanClaimToday: !account.ClaimedOn(u.now()),
		PointsWorth:   model.DiscountFor(account.Balance),
	}, nil
}

// History returns the most recent ledger entries, newest first.
func (u *LoyaltyUseCase) History(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.ledger.ListByUser(ctx, userID, limit)
}

// AccountsForAudit picks the next batch of accounts for reconciliation.
func (u *LoyaltyUseCase) AccountsForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error) {
	return u.accounts.SelectBatchForAudit(ctx, limit)
}

// LedgerSum computes the signed total of a user's ledger entries.
func (u *LoyaltyUseCase) LedgerSum(ctx context.Context, userID int64) (int64, error) {
	return u.accounts.LedgerSum(ctx, userID)
}

// Redeem converts points into a currency discount.
func (u *LoyaltyUseCase) Redeem(ctx context.Context, userID int64, points int64) (*model.RedemptionResult, error) {
	if points < model.MinRedeemPoints {
		return nil, domainErrors.ErrBelowMinimumRedemption
	}
	return u.accounts.Redeem(ctx, userID, points, "Points redeemed for discount")
}
