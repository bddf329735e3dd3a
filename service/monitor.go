package service

import (
	"context"
	"fmt"
	"time"

	"hearthbutler/cache"
	"hearthbutler/entity"
	"hearthbutler/logger"
	"hearthbutler/metrics"

	"go.uber.org/zap"
)

// Notifier delivers channel-agnostic payloads. The engine never knows the
// transport behind it.
type Notifier interface {
	Send(ctx context.Context, payload entity.NotificationPayload) error
}

// monitorStore is the slice of the persistence store the monitor needs.
type monitorStore interface {
	ListItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error)
	UpdateStatus(ctx context.Context, id uint, status entity.ItemStatus) error
	WasteAndRemoveItem(ctx context.Context, ownerID, itemID uint, reason entity.WasteReason, now time.Time) (*entity.WasteRecord, error)
}

// ExpiryMonitor recomputes item statuses, raises alerts and converts
// expired items into waste.
type ExpiryMonitor struct {
	store    monitorStore
	notifier Notifier
	reports  *cache.AnalysisCache
	cfg      entity.EngineConfig
	now      func() time.Time
}

// NewExpiryMonitor creates a monitor over the given store. notifier may be
// nil when no delivery collaborator is wired; reports may be nil too.
func NewExpiryMonitor(store monitorStore, notifier Notifier, reports *cache.AnalysisCache, cfg entity.EngineConfig) *ExpiryMonitor {
	return &ExpiryMonitor{
		store:    store,
		notifier: notifier,
		reports:  reports,
		cfg:      cfg,
		now:      time.Now,
	}
}

// UpdateExpiryStatuses re-derives the status of every item of the owner
// against the current time and persists only the ones whose stored status
// actually changed. Returns the changed count. Per-item failures are
// logged and skipped, never fatal to the sweep. Idempotent: a second run
// with no elapsed time or other mutation returns 0.
func (m *ExpiryMonitor) UpdateExpiryStatuses(ctx context.Context, ownerID uint) (int, error) {
	items, err := m.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return 0, err
	}
	now := m.now()
	changed := 0
	for i := range items {
		it := &items[i]
		status := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, m.cfg.ExpiringWindow())
		if status == it.Status {
			continue
		}
		if err := m.store.UpdateStatus(ctx, it.ID, status); err != nil {
			logger.Warn("status refresh skipped item",
				zap.Uint("item_id", it.ID), zap.Error(err))
			continue
		}
		metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
		changed++
	}
	metrics.ExpirySweeps.Inc()
	if changed > 0 {
		m.reports.Invalidate(ctx, ownerID)
	}
	return changed, nil
}

// GetExpiryAlerts partitions the owner's items into expiring and expired
// without mutating anything.
func (m *ExpiryMonitor) GetExpiryAlerts(ctx context.Context, ownerID uint) (*entity.ExpiryAlerts, error) {
	items, err := m.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	now := m.now()
	alerts := &entity.ExpiryAlerts{}
	for _, it := range items {
		it.Status = entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, m.cfg.ExpiringWindow())
		switch it.Status {
		case entity.StatusExpiring:
			alerts.ExpiringItems = append(alerts.ExpiringItems, it)
		case entity.StatusExpired:
			alerts.ExpiredItems = append(alerts.ExpiredItems, it)
		}
	}
	return alerts, nil
}

// HandleExpiredItems converts each listed item into a terminal waste
// record (full remaining quantity, value derived from the unit price) and
// removes it. An empty id list targets every currently expired item. One
// bad item never aborts the batch.
func (m *ExpiryMonitor) HandleExpiredItems(ctx context.Context, ownerID uint, itemIDs []uint, reason entity.WasteReason) (*entity.SweepResult, error) {
	if reason == "" {
		reason = entity.WasteExpired
	}
	now := m.now()
	if len(itemIDs) == 0 {
		items, err := m.store.ListItems(ctx, ownerID, entity.ItemFilter{})
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			status := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, m.cfg.ExpiringWindow())
			if status == entity.StatusExpired {
				itemIDs = append(itemIDs, it.ID)
			}
		}
	}
	result := &entity.SweepResult{Processed: len(itemIDs)}
	for _, id := range itemIDs {
		if _, err := m.store.WasteAndRemoveItem(ctx, ownerID, id, reason, now); err != nil {
			logger.Warn("expired item skipped",
				zap.Uint("item_id", id), zap.Error(err))
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		metrics.WasteEvents.Inc()
		result.Succeeded++
	}
	if result.Succeeded > 0 {
		m.reports.Invalidate(ctx, ownerID)
	}
	return result, nil
}

// GenerateExpiryNotifications maps the current alerts to notification
// payloads and hands them to the notification collaborator.
func (m *ExpiryMonitor) GenerateExpiryNotifications(ctx context.Context, ownerID uint) ([]entity.NotificationPayload, error) {
	alerts, err := m.GetExpiryAlerts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var payloads []entity.NotificationPayload
	if n := len(alerts.ExpiringItems); n > 0 {
		payloads = append(payloads, entity.NotificationPayload{
			OwnerID: ownerID,
			Kind:    "expiry_warning",
			Title:   "Items expiring soon",
			Message: fmt.Sprintf("%d item(s) will expire within %d days", n, m.cfg.ExpiringWindowDays),
			Data:    map[string]string{"count": fmt.Sprintf("%d", n)},
		})
	}
	if n := len(alerts.ExpiredItems); n > 0 {
		payloads = append(payloads, entity.NotificationPayload{
			OwnerID: ownerID,
			Kind:    "expired",
			Title:   "Expired items in your inventory",
			Message: fmt.Sprintf("%d item(s) have expired and should be discarded", n),
			Data:    map[string]string{"count": fmt.Sprintf("%d", n)},
		})
	}

	if m.notifier != nil {
		for _, p := range payloads {
			if err := m.notifier.Send(ctx, p); err != nil {
				logger.Warn("notification delivery failed",
					zap.Uint("owner_id", ownerID), zap.String("kind", p.Kind), zap.Error(err))
			}
		}
	}
	return payloads, nil
}

// GetExpiryAnalysis summarizes the owner's expiry state with free-text
// recommendations.
func (m *ExpiryMonitor) GetExpiryAnalysis(ctx context.Context, ownerID uint) (*entity.ExpiryAnalysis, error) {
	items, err := m.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	now := m.now()
	analysis := &entity.ExpiryAnalysis{TotalItems: len(items)}
	for _, it := range items {
		switch entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, m.cfg.ExpiringWindow()) {
		case entity.StatusExpiring:
			analysis.ExpiringCount++
		case entity.StatusExpired:
			analysis.ExpiredCount++
		case entity.StatusLowStock:
			analysis.LowStockCount++
		case entity.StatusOutOfStock:
			analysis.OutOfStockCount++
		}
	}
	if analysis.ExpiringCount > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("%d item(s) expiring within %d days; plan meals around them first", analysis.ExpiringCount, m.cfg.ExpiringWindowDays))
	}
	if analysis.ExpiredCount > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("%d expired item(s) should be removed from storage", analysis.ExpiredCount))
	}
	if analysis.LowStockCount+analysis.OutOfStockCount > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("%d item(s) are low or out of stock; consider restocking", analysis.LowStockCount+analysis.OutOfStockCount))
	}
	return analysis, nil
}
