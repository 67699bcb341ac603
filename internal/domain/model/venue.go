package model

// Venue holds the pricing fields the booking flow needs from the
// external venue catalog. Venue management itself lives elsewhere.
type Venue struct {
	ID        int64
	Name      string
	BasePrice int64
	PerGuest  int64
}

// Quote computes the pre-discount booking total for a guest count.
func (v *Venue) Quote(guests int) int64 {
	if guests < 0 {
		guests = 0
	}
	return v.BasePrice + v.PerGuest*int64(guests)
}
