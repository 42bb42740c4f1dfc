package workers

import (
	"context"
	"time"

	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/repositories"
)

const downgradeInterval = 6 * time.Hour

// SubscriptionWorker downgrades premium users whose paid period has ended.
type SubscriptionWorker struct {
	userRepo repositories.UserRepository
	interval time.Duration
}

func NewSubscriptionWorker(userRepo repositories.UserRepository) *SubscriptionWorker {
	return &SubscriptionWorker{
		userRepo: userRepo,
		interval: downgradeInterval,
	}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SubscriptionWorker) run(ctx context.Context) {
	// One sweep at startup so a long-stopped instance catches up immediately.
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SubscriptionWorker) sweep() {
	count, err := w.userRepo.DowngradeExpired(time.Now())
	logger.WorkerLog("subscription", "downgrade_expired", err)
	if err == nil && count > 0 {
		logger.Info("Downgraded expired subscriptions", "count", count)
	}
}
