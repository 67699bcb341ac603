package model

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTierForStreak(t *testing.T) {
	cases := []struct {
		streak int
		tier   Tier
		bonus  int64
	}{
		{1, TierSilver, 50},
		{2, TierSilver, 50},
		{3, TierGold, 75},
		{6, TierGold, 75},
		{7, TierPlatinum, 100},
		{13, TierPlatinum, 100},
		{14, TierDiamond, 150},
		{100, TierDiamond, 150},
	}

	for _, tc := range cases {
		tier, bonus := TierForStreak(tc.streak)
		if tier != tc.tier || bonus != tc.bonus {
			t.Fatalf("streak %d: expected %s/%d, got %s/%d", tc.streak, tc.tier, tc.bonus, tier, bonus)
		}
	}
}

func TestCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, time.March, 1, 2, 30, 0, 0, loc)
	if got := CalendarDay(ts); !got.Equal(day(2024, time.February, 29)) {
		t.Fatalf("expected UTC day 2024-02-29, got %s", got)
	}
}

func TestNextStreak(t *testing.T) {
	yesterday := day(2024, time.June, 9)
	lastWeek := day(2024, time.June, 3)

	cases := []struct {
		name    string
		account PointsAccount
		want    int
	}{
		{"first claim", PointsAccount{}, 1},
		{"consecutive", PointsAccount{StreakLength: 4, LastClaimedAt: &yesterday}, 5},
		{"gap resets", PointsAccount{StreakLength: 9, LastClaimedAt: &lastWeek}, 1},
	}

	today := day(2024, time.June, 10)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.account.NextStreak(today); got != tc.want {
				t.Fatalf("expected streak %d, got %d", tc.want, got)
			}
		})
	}
}

func TestClaimedOn(t *testing.T) {
	claimed := time.Date(2024, time.June, 10, 15, 4, 0, 0, time.UTC)
	account := PointsAccount{LastClaimedAt: &claimed}

	if !account.ClaimedOn(day(2024, time.June, 10)) {
		t.Fatal("expected same-day claim to be detected")
	}
	if account.ClaimedOn(day(2024, time.June, 11)) {
		t.Fatal("next day must be claimable")
	}
	if (&PointsAccount{}).ClaimedOn(day(2024, time.June, 10)) {
		t.Fatal("fresh account must be claimable")
	}
}

func TestBookingBonus(t *testing.T) {
	cases := []struct {
		amount int64
		want   int64
	}{
		{0, 0},
		{-100, 0},
		{1000, 50},
		{19, 0},
		{20, 1},
	}
	for _, tc := range cases {
		if got := BookingBonus(tc.amount); got != tc.want {
			t.Fatalf("bonus for %d: expected %d, got %d", tc.amount, tc.want, got)
		}
	}
}

func TestBookingFinalAmount(t *testing.T) {
	b := Booking{TotalAmount: 500, DiscountAmount: 100}
	if got := b.FinalAmount(); got != 400 {
		t.Fatalf("expected 400, got %d", got)
	}
	over := Booking{TotalAmount: 100, DiscountAmount: 200}
	if got := over.FinalAmount(); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestVenueQuote(t *testing.T) {
	v := Venue{BasePrice: 1000, PerGuest: 25}
	if got := v.Quote(40); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	if got := v.Quote(-1); got != 1000 {
		t.Fatalf("expected base price for negative guests, got %d", got)
	}
}
