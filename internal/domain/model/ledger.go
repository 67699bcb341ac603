package model

import "time"

// LedgerAction classifies a point-balance-affecting event.
type LedgerAction string

const (
	ActionDailyClaim   LedgerAction = "daily_claim"
	ActionRedeemed     LedgerAction = "redeemed"
	ActionBookingBonus LedgerAction = "booking_bonus"
)

// PointValue is the conversion rate between points and currency units:
// one point is worth one currency unit everywhere.
const PointValue int64 = 1

// MinRedeemPoints is the smallest redemption the service accepts.
const MinRedeemPoints int64 = 100

// LedgerEntry is an immutable record of one balance change. Entries are
// only ever appended; the per-user sum of PointsDelta must equal the
// account balance at all times.
type LedgerEntry struct {
	ID          int64
	UserID      int64
	PointsDelta int64
	Action      LedgerAction
	Description string
	CreatedAt   time.Time
}

// ClaimResult describes the outcome of a successful daily claim.
type ClaimResult struct {
	Bonus        int64
	Balance      int64
	StreakLength int
	Tier         Tier
}

// PointsSummary is the read-only eligibility snapshot for a user.
type PointsSummary struct {
	Account       *PointsAccount
	CanClaimToday bool
	PointsWorth   int64
}

// RedemptionResult describes a completed point redemption.
type RedemptionResult struct {
	PointsRedeemed   int64
	DiscountAmount   int64
	RemainingBalance int64
}

// DiscountFor converts redeemed points into a currency discount.
func DiscountFor(points int64) int64 {
	return points * PointValue
}
