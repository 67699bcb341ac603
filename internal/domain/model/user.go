package model

import "time"

// User is a registered marketplace customer. Venue owners and admins are
// managed elsewhere; the loyalty core only ever sees customers.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
