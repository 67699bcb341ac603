package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/celebration-station/loyalty/internal/domain/errors"
	"github.com/celebration-station/loyalty/internal/domain/model"
	"github.com/celebration-station/loyalty/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage relies on. Tests swap in
// a pgxmock pool through the same interface.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type accountRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

type bookingRepository struct {
	storage *Storage
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Bookings() repository.BookingRepository {
	return &bookingRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS points_accounts (
            user_id BIGINT PRIMARY KEY REFERENCES users(id),
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            streak_length INT NOT NULL DEFAULT 0,
            last_claimed_at TIMESTAMPTZ,
            audited_at TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
        )`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            points_delta BIGINT NOT NULL,
            action TEXT NOT NULL,
            description TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            venue_id BIGINT NOT NULL,
            event_date TIMESTAMPTZ NOT NULL,
            guest_count INT NOT NULL,
            total_amount BIGINT NOT NULL,
            loyalty_points_redeemed BIGINT NOT NULL DEFAULT 0,
            discount_amount BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user ON ledger_entries(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- AccountRepository implementation ---

func (r *accountRepository) Get(ctx context.Context, userID int64) (*model.PointsAccount, error) {
	const query = `SELECT balance, streak_length, last_claimed_at FROM points_accounts WHERE user_id=$1`
	account := model.PointsAccount{UserID: userID}
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&account.Balance, &account.StreakLength, &account.LastClaimedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.PointsAccount{UserID: userID}, nil
		}
		return nil, err
	}
	return &account, nil
}

// lockAccountTx creates the account row if missing and takes the row lock
// that serializes all balance mutations for the user.
func (s *Storage) lockAccountTx(ctx context.Context, tx pgx.Tx, userID int64) (*model.PointsAccount, error) {
	const ensure = `INSERT INTO points_accounts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, ensure, userID); err != nil {
		return nil, err
	}

	const query = `SELECT balance, streak_length, last_claimed_at FROM points_accounts WHERE user_id=$1 FOR UPDATE`
	account := model.PointsAccount{UserID: userID}
	if err := tx.QueryRow(ctx, query, userID).Scan(&account.Balance, &account.StreakLength, &account.LastClaimedAt); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) appendLedgerTx(ctx context.Context, tx pgx.Tx, userID, delta int64, action model.LedgerAction, description string) error {
	const query = `INSERT INTO ledger_entries (user_id, points_delta, action, description) VALUES ($1, $2, $3, $4)`
	_, err := tx.Exec(ctx, query, userID, delta, action, description)
	return err
}

func (r *accountRepository) ClaimDaily(ctx context.Context, userID int64, day time.Time) (*model.ClaimResult, error) {
	day = model.CalendarDay(day)

	var result model.ClaimResult
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		account, err := r.storage.lockAccountTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if account.ClaimedOn(day) {
			return domainErrors.ErrAlreadyClaimedToday
		}

		streak := account.NextStreak(day)
		tier, bonus := model.TierForStreak(streak)

		// The day guard repeats the already-claimed check inside the
		// UPDATE itself, so a stale read can never double-award.
		const update = `UPDATE points_accounts
                        SET balance = balance + $2, streak_length = $3, last_claimed_at = $4
                        WHERE user_id = $1 AND (last_claimed_at IS NULL OR last_claimed_at < $4)`
		tag, err := tx.Exec(ctx, update, userID, bonus, streak, day)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConcurrentModification
		}

		if err := r.storage.appendLedgerTx(ctx, tx, userID, bonus, model.ActionDailyClaim, "Daily loyalty points claimed"); err != nil {
			return err
		}

		result = model.ClaimResult{
			Bonus:        bonus,
			Balance:      account.Balance + bonus,
			StreakLength: streak,
			Tier:         tier,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) redeemTx(ctx context.Context, tx pgx.Tx, userID, points int64, description string) (*model.RedemptionResult, error) {
	account, err := s.lockAccountTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if account.Balance < points {
		return nil, domainErrors.ErrInsufficientPoints
	}

	const update = `UPDATE points_accounts SET balance = balance - $2 WHERE user_id = $1`
	if _, err := tx.Exec(ctx, update, userID, points); err != nil {
		return nil, err
	}

	if err := s.appendLedgerTx(ctx, tx, userID, -points, model.ActionRedeemed, description); err != nil {
		return nil, err
	}

	return &model.RedemptionResult{
		PointsRedeemed:   points,
		DiscountAmount:   model.DiscountFor(points),
		RemainingBalance: account.Balance - points,
	}, nil
}

func (s *Storage) creditTx(ctx context.Context, tx pgx.Tx, userID, points int64, action model.LedgerAction, description string) error {
	const update = `INSERT INTO points_accounts (user_id, balance)
                    VALUES ($1, $2)
                    ON CONFLICT (user_id) DO UPDATE SET balance = points_accounts.balance + EXCLUDED.balance`
	if _, err := tx.Exec(ctx, update, userID, points); err != nil {
		return err
	}
	return s.appendLedgerTx(ctx, tx, userID, points, action, description)
}

func (r *accountRepository) Redeem(ctx context.Context, userID int64, points int64, description string) (*model.RedemptionResult, error) {
	var result *model.RedemptionResult
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		res, err := r.storage.redeemTx(ctx, tx, userID, points, description)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accountRepository) SelectBatchForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error) {
	const selectQuery = `SELECT user_id, balance, streak_length, last_claimed_at
                         FROM points_accounts
                         ORDER BY audited_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var accounts []model.PointsAccount
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var a model.PointsAccount
			if err := rows.Scan(&a.UserID, &a.Balance, &a.StreakLength, &a.LastClaimedAt); err != nil {
				return err
			}
			accounts = append(accounts, a)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, a := range accounts {
			if _, err := tx.Exec(ctx, `UPDATE points_accounts SET audited_at=NOW() WHERE user_id=$1`, a.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) LedgerSum(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COALESCE(SUM(points_delta), 0) FROM ledger_entries WHERE user_id=$1`
	var sum int64
	if err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.LedgerEntry, error) {
	const query = `SELECT id, user_id, points_delta, action, description, created_at
                   FROM ledger_entries WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.PointsDelta, &e.Action, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- BookingRepository implementation ---

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking, pointsToRedeem int64) (*model.Booking, *model.RedemptionResult, error) {
	stored := *booking
	var redemption *model.RedemptionResult

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if pointsToRedeem > 0 {
			res, err := r.storage.redeemTx(ctx, tx, booking.UserID, pointsToRedeem, "Points redeemed for booking discount")
			if err != nil {
				return err
			}
			redemption = res
			stored.LoyaltyPointsRedeemed = res.PointsRedeemed
			stored.DiscountAmount = res.DiscountAmount
		}

		const insert = `INSERT INTO bookings (user_id, venue_id, event_date, guest_count, total_amount, loyalty_points_redeemed, discount_amount)
                        VALUES ($1, $2, $3, $4, $5, $6, $7)
                        RETURNING id, created_at`
		err := tx.QueryRow(ctx, insert,
			stored.UserID, stored.VenueID, stored.EventDate, stored.GuestCount,
			stored.TotalAmount, stored.LoyaltyPointsRedeemed, stored.DiscountAmount,
		).Scan(&stored.ID, &stored.CreatedAt)
		if err != nil {
			return err
		}

		if bonus := model.BookingBonus(stored.FinalAmount()); bonus > 0 {
			if err := r.storage.creditTx(ctx, tx, stored.UserID, bonus, model.ActionBookingBonus, "Booking bonus points"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &stored, redemption, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	const query = `SELECT id, user_id, venue_id, event_date, guest_count, total_amount, loyalty_points_redeemed, discount_amount, created_at
                   FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.VenueID, &b.EventDate, &b.GuestCount, &b.TotalAmount, &b.LoyaltyPointsRedeemed, &b.DiscountAmount, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
