package dto

import "time"

// ClaimResponse reports the outcome of a daily claim.
type ClaimResponse struct {
	Points        int64  `json:"points"`
	CurrentPoints int64  `json:"currentPoints"`
	Streak        int    `json:"streak"`
	Tier          string `json:"tier"`
	Message       string `json:"message"`
}

// PointsResponse is the read-only balance/eligibility snapshot.
type PointsResponse struct {
	Points        int64      `json:"points"`
	CanClaimDaily bool       `json:"canClaimDaily"`
	LastClaimed   *time.Time `json:"lastClaimed"`
	Streak        int        `json:"streak"`
	PointsWorth   int64      `json:"pointsWorth"`
}

// LedgerEntryResponse is one history row.
type LedgerEntryResponse struct {
	PointsDelta int64     `json:"pointsDelta"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HistoryResponse wraps the ledger page.
type HistoryResponse struct {
	History []LedgerEntryResponse `json:"history"`
}

// RedeemRequest asks to convert points into a discount.
type RedeemRequest struct {
	PointsToRedeem int64 `json:"pointsToRedeem"`
}

// RedeemResponse reports the discount granted.
type RedeemResponse struct {
	DiscountAmount  int64 `json:"discountAmount"`
	RemainingPoints int64 `json:"remainingPoints"`
}

// ErrorResponse carries a client-visible error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
