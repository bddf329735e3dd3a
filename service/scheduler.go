package service

import (
	"context"
	"time"

	"hearthbutler/logger"

	"go.uber.org/zap"
)

// memberLister enumerates the owners the sweeper walks.
type memberLister interface {
	ListMemberIDs(ctx context.Context) ([]uint, error)
}

// Sweeper periodically refreshes statuses and raises expiry notifications
// for every household member.
type Sweeper struct {
	monitor  *ExpiryMonitor
	members  memberLister
	interval time.Duration
}

// NewSweeper creates a sweeper driving the monitor at the given interval.
func NewSweeper(monitor *ExpiryMonitor, members memberLister, interval time.Duration) *Sweeper {
	return &Sweeper{
		monitor:  monitor,
		members:  members,
		interval: interval,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		logger.Info("expiry sweeper started", zap.Duration("interval", s.interval))
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("expiry sweeper stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) runOnce(ctx context.Context) {
	ids, err := s.members.ListMemberIDs(ctx)
	if err != nil {
		logger.Error("sweep could not list members", zap.Error(err))
		return
	}
	for _, ownerID := range ids {
		changed, err := s.monitor.UpdateExpiryStatuses(ctx, ownerID)
		if err != nil {
			logger.Warn("sweep failed for owner", zap.Uint("owner_id", ownerID), zap.Error(err))
			continue
		}
		if changed > 0 {
			if _, err := s.monitor.GenerateExpiryNotifications(ctx, ownerID); err != nil {
				logger.Warn("sweep notifications failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			}
		}
	}
}
