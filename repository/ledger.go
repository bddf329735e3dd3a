package repository

import (
	"context"
	"time"

	"hearthbutler/entity"
	"hearthbutler/mapper"
	"hearthbutler/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository reads the append-only usage and waste ledgers.
type LedgerRepository struct {
	DB *gorm.DB
}

// NewLedgerRepository creates and returns a new LedgerRepository.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// CreateUsageRecord appends one consumption event outside a deduction
// transaction (manual logging, sharing).
func (r *LedgerRepository) CreateUsageRecord(ctx context.Context, rec *entity.UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m := mapper.UsageRecordEntityToModel(rec)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr("create usage record", err)
	}
	return nil
}

// ListUsageSince returns an owner's usage events newer than since.
func (r *LedgerRepository) ListUsageSince(ctx context.Context, ownerID uint, since time.Time) ([]entity.UsageRecord, error) {
	var rows []model.UsageRecord
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreErr("list usage records", err)
	}
	recs := make([]entity.UsageRecord, 0, len(rows))
	for i := range rows {
		recs = append(recs, *mapper.UsageRecordModelToEntity(&rows[i]))
	}
	return recs, nil
}

// ListWasteSince returns an owner's waste events newer than since.
func (r *LedgerRepository) ListWasteSince(ctx context.Context, ownerID uint, since time.Time) ([]entity.WasteRecord, error) {
	var rows []model.WasteRecord
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreErr("list waste records", err)
	}
	recs := make([]entity.WasteRecord, 0, len(rows))
	for i := range rows {
		recs = append(recs, *mapper.WasteRecordModelToEntity(&rows[i]))
	}
	return recs, nil
}

// CountWastedItemsSince counts distinct items with at least one waste
// record in the lookback window.
func (r *LedgerRepository) CountWastedItemsSince(ctx context.Context, ownerID uint, since time.Time) (int, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.WasteRecord{}).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Distinct("inventory_item_id").
		Count(&n).Error
	if err != nil {
		return 0, wrapStoreErr("count wasted items", err)
	}
	return int(n), nil
}
