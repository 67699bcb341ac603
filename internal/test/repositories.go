package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AccountRepositoryStub keeps accounts and ledger entries in-memory with
// the same claim and redemption semantics as the Postgres repository.
type AccountRepositoryStub struct {
	ClaimFn  func(context.Context, int64, time.Time) (*model.ClaimResult, error)
	RedeemFn func(context.Context, int64, int64, string) (*model.RedemptionResult, error)

	mu       sync.Mutex
	accounts map[int64]*model.PointsAccount
	entries  []model.LedgerEntry
	nextID   int64
}

// NewAccountRepositoryStub constructs an empty in-memory account store.
func NewAccountRepositoryStub() *AccountRepositoryStub {
	return &AccountRepositoryStub{accounts: make(map[int64]*model.PointsAccount), nextID: 1}
}

// Seed installs an account, replacing any previous state for the user.
func (s *AccountRepositoryStub) Seed(account model.PointsAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := account
	s.accounts[account.UserID] = &copied
}

// Entries returns a snapshot of all recorded ledger entries.
func (s *AccountRepositoryStub) Entries() []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *AccountRepositoryStub) account(userID int64) *model.PointsAccount {
	account, ok := s.accounts[userID]
	if !ok {
		account = &model.PointsAccount{UserID: userID}
		s.accounts[userID] = account
	}
	return account
}

func (s *AccountRepositoryStub) append(userID, delta int64, action model.LedgerAction, description string) {
	s.entries = append(s.entries, model.LedgerEntry{
		ID:          s.nextID,
		UserID:      userID,
		PointsDelta: delta,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
	s.nextID++
}

// Get returns the stored account or a zero-valued one.
func (s *AccountRepositoryStub) Get(ctx context.Context, userID int64) (*model.PointsAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[userID]; ok {
		copied := *account
		return &copied, nil
	}
	return &model.PointsAccount{UserID: userID}, nil
}

// ClaimDaily applies the daily bonus with streak continuation rules.
func (s *AccountRepositoryStub) ClaimDaily(ctx context.Context, userID int64, day time.Time) (*model.ClaimResult, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, userID, day)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.account(userID)
	if account.ClaimedOn(day) {
		return nil, domainErrors.ErrAlreadyClaimedToday
	}
	streak := account.NextStreak(day)
	tier, bonus := model.TierForStreak(streak)

	account.Balance += bonus
	account.StreakLength = streak
	claimedAt := model.CalendarDay(day)
	account.LastClaimedAt = &claimedAt

	s.append(userID, bonus, model.ActionDailyClaim, "Daily loyalty points claimed")
	return &model.ClaimResult{Bonus: bonus, Balance: account.Balance, StreakLength: streak, Tier: tier}, nil
}

// Redeem debits points when the balance allows it.
func (s *AccountRepositoryStub) Redeem(ctx context.Context, userID int64, points int64, description string) (*model.RedemptionResult, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, userID, points, description)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.account(userID)
	if account.Balance < points {
		return nil, domainErrors.ErrInsufficientPoints
	}
	account.Balance -= points
	s.append(userID, -points, model.ActionRedeemed, description)
	return &model.RedemptionResult{
		PointsRedeemed:   points,
		DiscountAmount:   model.DiscountFor(points),
		RemainingBalance: account.Balance,
	}, nil
}

// SelectBatchForAudit returns up to limit stored accounts.
func (s *AccountRepositoryStub) SelectBatchForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PointsAccount, 0, limit)
	for _, account := range s.accounts {
		if len(out) == limit {
			break
		}
		out = append(out, *account)
	}
	return out, nil
}

// LedgerSum totals recorded deltas for the user.
func (s *AccountRepositoryStub) LedgerSum(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, entry := range s.entries {
		if entry.UserID == userID {
			sum += entry.PointsDelta
		}
	}
	return sum, nil
}

// LedgerRepositoryStub serves ledger history for tests.
type LedgerRepositoryStub struct {
	ListFn  func(context.Context, int64, int) ([]model.LedgerEntry, error)
	Entries []model.LedgerEntry
}

// ListByUser returns configured entries honoring the limit.
func (s *LedgerRepositoryStub) ListByUser(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID, limit)
	}
	out := make([]model.LedgerEntry, 0, limit)
	for _, entry := range s.Entries {
		if entry.UserID != userID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, entry)
	}
	return out, nil
}

// BookingRepositoryStub lets tests control booking persistence.
type BookingRepositoryStub struct {
	CreateFn func(context.Context, *model.Booking, int64) (*model.Booking, *model.RedemptionResult, error)
	ListFn   func(context.Context, int64) ([]model.Booking, error)

	Created    []model.Booking
	Items      []model.Booking
	Redemption *model.RedemptionResult
	CreateErr  error
	nextID     int64
}

// Create records the booking and applies the requested redemption shape.
func (s *BookingRepositoryStub) Create(ctx context.Context, booking *model.Booking, pointsToRedeem int64) (*model.Booking, *model.RedemptionResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, booking, pointsToRedeem)
	}
	if s.CreateErr != nil {
		return nil, nil, s.CreateErr
	}
	s.nextID++
	stored := *booking
	stored.ID = s.nextID
	stored.LoyaltyPointsRedeemed = pointsToRedeem
	stored.DiscountAmount = model.DiscountFor(pointsToRedeem)
	stored.CreatedAt = time.Now()
	s.Created = append(s.Created, stored)
	redemption := s.Redemption
	if redemption == nil && pointsToRedeem > 0 {
		redemption = &model.RedemptionResult{
			PointsRedeemed: pointsToRedeem,
			DiscountAmount: model.DiscountFor(pointsToRedeem),
		}
	}
	return &stored, redemption, nil
}

// ListByUser returns configured bookings.
func (s *BookingRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return s.Items, nil
}
