package errors

import "errors"

var (
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAlreadyClaimedToday    = errors.New("daily points already claimed today")
	ErrBelowMinimumRedemption = errors.New("redemption below minimum threshold")
	ErrInsufficientPoints     = errors.New("insufficient points balance")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrConcurrentModification = errors.New("account modified concurrently")
)
