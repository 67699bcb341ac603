package model

import "time"

// PointsAccount holds the current loyalty state for one user.
type PointsAccount struct {
	UserID        int64
	Balance       int64
	StreakLength  int
	LastClaimedAt *time.Time
}

// CalendarDay truncates a timestamp to its UTC calendar day.
// All claim bookkeeping uses UTC days.
func CalendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClaimedOn reports whether the account already claimed on the given day.
func (a *PointsAccount) ClaimedOn(day time.Time) bool {
	return a.LastClaimedAt != nil && CalendarDay(*a.LastClaimedAt).Equal(CalendarDay(day))
}

// NextStreak returns the streak length a claim on day would produce.
// The streak continues only when the previous claim was exactly one
// calendar day earlier; any gap, including the first claim, restarts it.
func (a *PointsAccount) NextStreak(day time.Time) int {
	if a.LastClaimedAt == nil {
		return 1
	}
	prev := CalendarDay(*a.LastClaimedAt)
	if CalendarDay(day).Equal(prev.AddDate(0, 0, 1)) {
		return a.StreakLength + 1
	}
	return 1
}
