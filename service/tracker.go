package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/cache"
	"hearthbutler/entity"
	"hearthbutler/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemStore is the slice of the persistence store the tracker needs.
type ItemStore interface {
	CreateItem(ctx context.Context, item *entity.InventoryItem) error
	FindOwnedItem(ctx context.Context, ownerID, id uint) (*entity.InventoryItem, error)
	ListItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error)
	SaveItem(ctx context.Context, item *entity.InventoryItem) error
	DeleteItem(ctx context.Context, id uint) error
	DeductForUsage(ctx context.Context, ownerID uint, demands []entity.IngredientDemand, usageType entity.UsageType, recipeName string, now time.Time, expiringWindow time.Duration) ([]entity.UsageRecord, error)
}

// wasteCounter is the slice of the ledger the tracker's stats need.
type wasteCounter interface {
	CountWastedItemsSince(ctx context.Context, ownerID uint, since time.Time) (int, error)
}

// InventoryTracker owns the item lifecycle: create, read, update, deduct,
// delete, stats.
type InventoryTracker struct {
	store   ItemStore
	ledger  wasteCounter
	reports *cache.AnalysisCache
	cfg     entity.EngineConfig
	now     func() time.Time
}

// NewInventoryTracker creates a tracker over the given store and ledger.
// reports may be nil when no analysis cache is configured.
func NewInventoryTracker(store ItemStore, ledger wasteCounter, reports *cache.AnalysisCache, cfg entity.EngineConfig) *InventoryTracker {
	return &InventoryTracker{
		store:   store,
		ledger:  ledger,
		reports: reports,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ItemPatch carries the field changes of an item update. Nil pointers leave
// the field untouched; the Clear flags reset optional fields.
type ItemPatch struct {
	Name              *string
	Quantity          *float64
	Unit              *string
	ExpiryDate        *time.Time
	ClearExpiry       bool
	StorageLocation   *entity.StorageLocation
	MinStockThreshold *float64
	ClearThreshold    bool
	PurchasePrice     *decimal.Decimal
	PurchaseSource    *string
	Brand             *string
	Packaging         *string
}

// CreateInventoryItem validates and persists a new stock entry, computing
// its initial status.
func (t *InventoryTracker) CreateInventoryItem(ctx context.Context, input entity.InventoryItem) (*entity.InventoryItem, error) {
	if input.Quantity <= 0 {
		return nil, apperr.Validation("quantity", "must be positive")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, apperr.Validation("unit", "must not be empty")
	}
	if input.OwnerID == 0 {
		return nil, apperr.Validation("owner_id", "must be set")
	}
	if input.FoodID == 0 {
		return nil, apperr.Validation("food_id", "must be set")
	}
	if input.MinStockThreshold != nil && *input.MinStockThreshold < 0 {
		return nil, apperr.Validation("min_stock_threshold", "must not be negative")
	}

	now := t.now()
	if input.PurchaseDate.IsZero() {
		input.PurchaseDate = now
	}
	if input.PurchaseQuantity <= 0 {
		input.PurchaseQuantity = input.Quantity
	}
	if input.StorageLocation == "" {
		input.StorageLocation = entity.LocationPantry
	}
	input.Status = entity.ComputeStatus(input.Quantity, input.ExpiryDate, input.MinStockThreshold, now, t.cfg.ExpiringWindow())

	if err := t.store.CreateItem(ctx, &input); err != nil {
		return nil, err
	}
	t.reports.Invalidate(ctx, input.OwnerID)
	return &input, nil
}

// GetInventoryItems lists an owner's items with freshly derived statuses,
// ordered by status severity, then ascending expiry, then name. A status
// filter is applied after recomputation so it never acts on a stale cache.
func (t *InventoryTracker) GetInventoryItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error) {
	statusFilter := f.Status
	f.Status = ""
	items, err := t.store.ListItems(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}

	now := t.now()
	out := items[:0]
	for _, it := range items {
		it.Status = entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, t.cfg.ExpiringWindow())
		if statusFilter != "" && it.Status != statusFilter {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := entity.StatusSeverity(out[i].Status), entity.StatusSeverity(out[j].Status)
		if si != sj {
			return si > sj
		}
		ei, ej := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case ei == nil && ej != nil:
			return false
		case ei != nil && ej == nil:
			return true
		case ei != nil && ej != nil && !ei.Equal(*ej):
			return ei.Before(*ej)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetInventoryItem fetches one owned item with a freshly derived status.
func (t *InventoryTracker) GetInventoryItem(ctx context.Context, ownerID, id uint) (*entity.InventoryItem, error) {
	it, err := t.store.FindOwnedItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	it.Status = entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, t.now(), t.cfg.ExpiringWindow())
	return it, nil
}

// UpdateInventoryItem applies a patch to an owned item. Any change to
// quantity, expiry or threshold recomputes the status before persisting.
func (t *InventoryTracker) UpdateInventoryItem(ctx context.Context, ownerID, id uint, patch ItemPatch) (*entity.InventoryItem, error) {
	item, err := t.store.FindOwnedItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	statusDirty := false
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, apperr.Validation("quantity", "must not be negative")
		}
		item.Quantity = *patch.Quantity
		statusDirty = true
	}
	if patch.Unit != nil {
		if strings.TrimSpace(*patch.Unit) == "" {
			return nil, apperr.Validation("unit", "must not be empty")
		}
		item.Unit = *patch.Unit
	}
	if patch.ClearExpiry {
		item.ExpiryDate = nil
		statusDirty = true
	} else if patch.ExpiryDate != nil {
		d := *patch.ExpiryDate
		item.ExpiryDate = &d
		statusDirty = true
	}
	if patch.ClearThreshold {
		item.MinStockThreshold = nil
		statusDirty = true
	} else if patch.MinStockThreshold != nil {
		if *patch.MinStockThreshold < 0 {
			return nil, apperr.Validation("min_stock_threshold", "must not be negative")
		}
		v := *patch.MinStockThreshold
		item.MinStockThreshold = &v
		statusDirty = true
	}
	if patch.StorageLocation != nil {
		item.StorageLocation = *patch.StorageLocation
	}
	if patch.PurchasePrice != nil {
		p := *patch.PurchasePrice
		item.PurchasePrice = &p
	}
	if patch.PurchaseSource != nil {
		item.PurchaseSource = *patch.PurchaseSource
	}
	if patch.Brand != nil {
		item.Brand = *patch.Brand
	}
	if patch.Packaging != nil {
		item.Packaging = *patch.Packaging
	}

	if statusDirty {
		item.Status = entity.ComputeStatus(item.Quantity, item.ExpiryDate, item.MinStockThreshold, t.now(), t.cfg.ExpiringWindow())
	}
	if err := t.store.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	t.reports.Invalidate(ctx, ownerID)
	return item, nil
}

// Consume runs the two-phase deduction for the given demands. Candidate
// items are drained earliest expiry first; the whole call is atomic.
func (t *InventoryTracker) Consume(ctx context.Context, ownerID uint, demands []entity.IngredientDemand, usageType entity.UsageType, label string) ([]entity.UsageRecord, error) {
	if len(demands) == 0 {
		return nil, apperr.Validation("ingredients", "must not be empty")
	}
	for _, d := range demands {
		if d.Amount <= 0 {
			return nil, apperr.Validation("amount", "must be positive")
		}
		if d.FoodID == 0 {
			return nil, apperr.Validation("food_id", "must be set")
		}
	}
	records, err := t.store.DeductForUsage(ctx, ownerID, demands, usageType, label, t.now(), t.cfg.ExpiringWindow())
	if err != nil {
		return nil, err
	}
	logger.Debug("inventory consumed",
		zap.Uint("owner_id", ownerID),
		zap.Int("records", len(records)),
		zap.String("usage_type", string(usageType)))
	t.reports.Invalidate(ctx, ownerID)
	return records, nil
}

// UseInventoryForRecipe deducts the requested ingredient amounts for a
// recipe label, emitting one usage record per item actually deducted.
func (t *InventoryTracker) UseInventoryForRecipe(ctx context.Context, ownerID uint, ingredients []entity.IngredientDemand, label string) ([]entity.UsageRecord, error) {
	return t.Consume(ctx, ownerID, ingredients, entity.UsageRecipe, label)
}

// GetInventoryStats summarizes the owner's current inventory.
func (t *InventoryTracker) GetInventoryStats(ctx context.Context, ownerID uint) (*entity.InventoryStats, error) {
	items, err := t.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	now := t.now()
	stats := &entity.InventoryStats{
		TotalItems: len(items),
		ByStatus:   make(map[entity.ItemStatus]int),
		TotalValue: decimal.Zero,
	}
	for i := range items {
		it := &items[i]
		st := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, t.cfg.ExpiringWindow())
		stats.ByStatus[st]++
		stats.TotalValue = stats.TotalValue.Add(it.CurrentValue())
	}
	wasted, err := t.ledger.CountWastedItemsSince(ctx, ownerID, now.Add(-t.cfg.AnalysisWindow()))
	if err != nil {
		return nil, err
	}
	stats.WasteItems = wasted
	return stats, nil
}

// DeleteInventoryItem removes an owned item. Plain removal: no waste
// record is written here.
func (t *InventoryTracker) DeleteInventoryItem(ctx context.Context, ownerID, id uint) error {
	if _, err := t.store.FindOwnedItem(ctx, ownerID, id); err != nil {
		return err
	}
	if err := t.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	t.reports.Invalidate(ctx, ownerID)
	return nil
}
