package repository

import (
	"context"
	"time"

	"github.com/celebration-station/loyalty/internal/domain/model"
)

// AccountRepository manages loyalty point accounts. Mutating operations
// update the account and append the matching ledger entry atomically.
type AccountRepository interface {
	// Get returns the account for the user, or a zero-valued account when
	// no loyalty operation has happened yet. Never creates rows.
	Get(ctx context.Context, userID int64) (*model.PointsAccount, error)

	// ClaimDaily grants the once-per-day bonus for the given UTC calendar
	// day. Returns ErrAlreadyClaimedToday when the day is spent and
	// ErrConcurrentModification when a racing writer got there first.
	ClaimDaily(ctx context.Context, userID int64, day time.Time) (*model.ClaimResult, error)

	// Redeem debits points in exchange for a discount. Returns
	// ErrInsufficientPoints when the balance does not cover the request.
	Redeem(ctx context.Context, userID int64, points int64, description string) (*model.RedemptionResult, error)

	// SelectBatchForAudit picks the least recently audited accounts and
	// stamps them, so concurrent auditors never pick the same rows.
	SelectBatchForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error)

	// LedgerSum recomputes the ledger total for one user.
	LedgerSum(ctx context.Context, userID int64) (int64, error)
}

// LedgerRepository provides read access to the append-only ledger.
type LedgerRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error)
}
