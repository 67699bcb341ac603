package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/celebration-station/loyalty/internal/domain/model"
)

// LoyaltyFacade exposes the subset of application functionality required by the worker.
type LoyaltyFacade interface {
	AccountsForAudit(ctx context.Context, limit int) ([]model.PointsAccount, error)
	LedgerSum(ctx context.Context, userID int64) (int64, error)
}

// BalanceAuditor periodically reconciles account balances against ledger history.
// Drift is reported through logs and never corrected automatically.
type BalanceAuditor struct {
	facade       LoyaltyFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.PointsAccount
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewBalanceAuditor constructs audit worker pool.
func NewBalanceAuditor(facade LoyaltyFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *BalanceAuditor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BalanceAuditor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.PointsAccount, batchSize*workers),
	}
}

// Start launches background auditing.
func (a *BalanceAuditor) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go a.worker(runCtx)
	}

	a.wg.Add(1)
	go a.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (a *BalanceAuditor) Stop() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *BalanceAuditor) dispatch(ctx context.Context) {
	defer a.wg.Done()
	defer close(a.jobs)
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.fetchAndDispatch(ctx)
		}
	}
}

func (a *BalanceAuditor) fetchAndDispatch(ctx context.Context) {
	accounts, err := a.facade.AccountsForAudit(ctx, a.batchSize)
	if err != nil {
		a.logger.Error("fetch accounts for audit failed", slog.String("error", err.Error()))
		return
	}
	for _, account := range accounts {
		select {
		case <-ctx.Done():
			return
		case a.jobs <- account:
		}
	}
}

func (a *BalanceAuditor) worker(ctx context.Context) {
	defer a.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case account, ok := <-a.jobs:
			if !ok {
				return
			}
			a.auditAccount(ctx, account)
		}
	}
}

func (a *BalanceAuditor) auditAccount(ctx context.Context, account model.PointsAccount) {
	sum, err := a.facade.LedgerSum(ctx, account.UserID)
	if err != nil {
		a.logger.Error("ledger sum failed", slog.Int64("user_id", account.UserID), slog.String("error", err.Error()))
		return
	}
	if sum != account.Balance {
		a.logger.Warn("balance drift detected",
			slog.Int64("user_id", account.UserID),
			slog.Int64("balance", account.Balance),
			slog.Int64("ledger_sum", sum))
		return
	}
	a.logger.Debug("balance audit ok", slog.Int64("user_id", account.UserID))
}
