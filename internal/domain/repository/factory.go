package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Accounts() AccountRepository
	Ledger() LedgerRepository
	Bookings() BookingRepository
}
