package dto

import "time"

// BookingRequest creates a booking, optionally redeeming points.
type BookingRequest struct {
	VenueID        int64     `json:"venueId"`
	EventDate      time.Time `json:"eventDate"`
	GuestCount     int       `json:"guestCount"`
	PointsToRedeem int64     `json:"pointsToRedeem,omitempty"`
}

// BookingResponse is the persisted booking with its discount.
type BookingResponse struct {
	ID                    int64     `json:"id"`
	VenueID               int64     `json:"venueId"`
	EventDate             time.Time `json:"eventDate"`
	GuestCount            int       `json:"guestCount"`
	TotalAmount           int64     `json:"totalAmount"`
	LoyaltyPointsRedeemed int64     `json:"loyaltyPointsRedeemed"`
	DiscountAmount        int64     `json:"discountAmount"`
	FinalAmount           int64     `json:"finalAmount"`
	DiscountApplied       bool      `json:"discountApplied"`
	CreatedAt             time.Time `json:"createdAt"`
}
