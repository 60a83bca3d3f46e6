package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/meetsched/meeting-scheduler/internal/domain/schedule"
)

// ExpireRequests is the background sweeper that flips overdue holds to
// expired. Confirmation attempts also expire on touch; the sweeper keeps
// untouched holds from blocking slots forever.
type ExpireRequests struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewExpireRequests(repo domain.Repository, log *zap.Logger) *ExpireRequests {
	return &ExpireRequests{repo: repo, log: log}
}

func (uc *ExpireRequests) Execute(ctx context.Context) error {
	n, err := uc.repo.ExpireOverdueRequests(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		uc.log.Info("expired overdue booking requests", zap.Int64("count", n))
	}
	return nil
}

// Run sweeps on a fixed interval until the context is cancelled.
func (uc *ExpireRequests) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.Execute(ctx); err != nil {
				uc.log.Warn("request expiry sweep failed", zap.Error(err))
			}
		}
	}
}
