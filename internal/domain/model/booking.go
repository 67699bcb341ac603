package model

import "time"

// Booking is a venue reservation with its loyalty-relevant fields.
type Booking struct {
	ID                    int64
	UserID                int64
	VenueID               int64
	EventDate             time.Time
	GuestCount            int
	TotalAmount           int64
	LoyaltyPointsRedeemed int64
	DiscountAmount        int64
	CreatedAt             time.Time
}

// BookingRequest carries the client-supplied booking fields.
type BookingRequest struct {
	VenueID        int64
	EventDate      time.Time
	GuestCount     int
	PointsToRedeem int64
}

// FinalAmount is the total after the loyalty discount.
func (b *Booking) FinalAmount() int64 {
	amount := b.TotalAmount - b.DiscountAmount
	if amount < 0 {
		return 0
	}
	return amount
}

// bookingBonusPercent of the final amount is credited back as points.
const bookingBonusPercent = 5

// BookingBonus returns the points earned for a booking of the given
// final amount.
func BookingBonus(finalAmount int64) int64 {
	if finalAmount <= 0 {
		return 0
	}
	return finalAmount * bookingBonusPercent / 100
}
