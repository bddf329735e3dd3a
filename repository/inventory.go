package repository

import (
	"context"
	"errors"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/mapper"
	"hearthbutler/metrics"
	"hearthbutler/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quantityEpsilon absorbs float rounding when comparing quantities.
const quantityEpsilon = 1e-9

// InventoryRepository persists inventory items and their ledgers.
type InventoryRepository struct {
	DB *gorm.DB
}

// NewInventoryRepository creates and returns a new InventoryRepository.
func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		is *apperr.InsufficientStockError
		ce *apperr.ConflictError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &is) || errors.As(err, &ce) {
		return err
	}
	return apperr.Persistence(op, err)
}

// CreateItem inserts a new inventory item and writes the generated id back.
func (r *InventoryRepository) CreateItem(ctx context.Context, item *entity.InventoryItem) error {
	m := mapper.InventoryItemEntityToModel(item)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr("create item", err)
	}
	item.ID = m.ID
	item.CreatedAt = m.CreatedAt
	item.UpdatedAt = m.UpdatedAt
	return nil
}

// FindItemByID fetches a live item by id.
func (r *InventoryRepository) FindItemByID(ctx context.Context, id uint) (*entity.InventoryItem, error) {
	var m model.InventoryItem
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inventory item", id)
		}
		return nil, wrapStoreErr("find item", err)
	}
	return mapper.InventoryItemModelToEntity(&m), nil
}

// FindOwnedItem fetches a live item by id, restricted to one owner.
func (r *InventoryRepository) FindOwnedItem(ctx context.Context, ownerID, id uint) (*entity.InventoryItem, error) {
	var m model.InventoryItem
	err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("inventory item", id)
		}
		return nil, wrapStoreErr("find owned item", err)
	}
	return mapper.InventoryItemModelToEntity(&m), nil
}

// ListItems returns an owner's live items, optionally filtered. Ordering is
// left to the caller; the tracker sorts by severity after recomputation.
func (r *InventoryRepository) ListItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error) {
	q := r.DB.WithContext(ctx).Model(&model.InventoryItem{}).Where("inventory_items.owner_id = ?", ownerID)
	if f.Status != "" {
		q = q.Where("inventory_items.status = ?", string(f.Status))
	}
	if f.Location != "" {
		q = q.Where("inventory_items.storage_location = ?", string(f.Location))
	}
	if f.FoodID != 0 {
		q = q.Where("inventory_items.food_id = ?", f.FoodID)
	}
	if f.Category != "" {
		q = q.Joins("JOIN foods ON foods.id = inventory_items.food_id").
			Where("foods.category = ?", f.Category)
	}
	var rows []model.InventoryItem
	if err := q.Find(&rows).Error; err != nil {
		return nil, wrapStoreErr("list items", err)
	}
	items := make([]entity.InventoryItem, 0, len(rows))
	for i := range rows {
		items = append(items, *mapper.InventoryItemModelToEntity(&rows[i]))
	}
	return items, nil
}

// SaveItem persists every field of an existing item.
func (r *InventoryRepository) SaveItem(ctx context.Context, item *entity.InventoryItem) error {
	m := mapper.InventoryItemEntityToModel(item)
	if err := r.DB.WithContext(ctx).Save(m).Error; err != nil {
		return wrapStoreErr("save item", err)
	}
	item.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateStatus overwrites only the cached status column of one item.
func (r *InventoryRepository) UpdateStatus(ctx context.Context, id uint, status entity.ItemStatus) error {
	res := r.DB.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return wrapStoreErr("update status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("inventory item", id)
	}
	return nil
}

// DeleteItem soft-deletes an item. The tombstone keeps ledger references
// resolvable; no waste record is written here.
func (r *InventoryRepository) DeleteItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.InventoryItem{}, id)
	if res.Error != nil {
		return wrapStoreErr("delete item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("inventory item", id)
	}
	return nil
}

// DeductForUsage runs the two-phase deduction as one transaction: lock
// every candidate row of the requested foods, verify availability for all
// demands, then deduct earliest-expiry-first and append one usage record
// per touched item. Any shortfall rolls the whole transaction back.
func (r *InventoryRepository) DeductForUsage(ctx context.Context, ownerID uint, demands []entity.IngredientDemand, usageType entity.UsageType, recipeName string, now time.Time, expiringWindow time.Duration) ([]entity.UsageRecord, error) {
	if len(demands) == 0 {
		return nil, nil
	}
	foodIDs := make([]uint, 0, len(demands))
	for _, d := range demands {
		foodIDs = append(foodIDs, d.FoodID)
	}

	var records []entity.UsageRecord
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.InventoryItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ? AND food_id IN ?", ownerID, foodIDs).
			Order("expiry_date ASC NULLS LAST, id ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		// Phase one: plan against the locked snapshot. Status is
		// recomputed inside the planner, never read from the cached
		// column. Any shortfall aborts before anything is touched.
		plan, shortfalls := planDeduction(rows, demands, now, expiringWindow)
		if len(shortfalls) > 0 {
			return &apperr.InsufficientStockError{Shortfalls: shortfalls}
		}

		// Phase two: apply. The quantity guard should never miss under
		// the row locks; a zero-row update means a conflicting writer won.
		for _, a := range plan {
			newStatus := entity.ComputeStatus(a.row.Quantity, a.row.ExpiryDate, a.row.MinStockThreshold, now, expiringWindow)
			res := tx.Model(&model.InventoryItem{}).
				Where("id = ? AND quantity >= ?", a.row.ID, a.take).
				Updates(map[string]any{
					"quantity": gorm.Expr("quantity - ?", a.take),
					"status":   string(newStatus),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				metrics.DeductionConflicts.Inc()
				return apperr.Conflict("inventory item", a.row.ID)
			}

			rec := model.UsageRecord{
				ID:              uuid.NewString(),
				InventoryItemID: a.row.ID,
				OwnerID:         ownerID,
				FoodID:          a.row.FoodID,
				UsedQuantity:    a.take,
				UsageType:       string(usageType),
				RecipeName:      recipeName,
				CreatedAt:       now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			records = append(records, *mapper.UsageRecordModelToEntity(&rec))
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("deduct for usage", err)
	}
	return records, nil
}

// WasteAndRemoveItem writes a terminal waste record for the item's full
// remaining quantity, then soft-deletes the item, atomically.
func (r *InventoryRepository) WasteAndRemoveItem(ctx context.Context, ownerID, itemID uint, reason entity.WasteReason, now time.Time) (*entity.WasteRecord, error) {
	var rec *entity.WasteRecord
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerID).
			First(&m, itemID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("inventory item", itemID)
			}
			return err
		}

		it := mapper.InventoryItemModelToEntity(&m)
		wr := model.WasteRecord{
			ID:              uuid.NewString(),
			InventoryItemID: it.ID,
			OwnerID:         ownerID,
			FoodID:          it.FoodID,
			FoodName:        it.Name,
			WastedQuantity:  it.Quantity,
			Reason:          string(reason),
			Value:           it.CurrentValue(),
			CreatedAt:       now,
		}
		if err := tx.Create(&wr).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.InventoryItem{}, itemID).Error; err != nil {
			return err
		}
		rec = mapper.WasteRecordModelToEntity(&wr)
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("waste and remove item", err)
	}
	return rec, nil
}
