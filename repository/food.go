package repository

import (
	"context"
	"errors"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/mapper"
	"hearthbutler/model"

	"gorm.io/gorm"
)

// FoodRepository reads the food catalog. Receipt ingestion is the only
// writer, and only to add entries it has never seen.
type FoodRepository struct {
	DB *gorm.DB
}

// NewFoodRepository creates and returns a new FoodRepository.
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{DB: db}
}

// FindByID fetches one catalog entry.
func (r *FoodRepository) FindByID(ctx context.Context, id uint) (*entity.Food, error) {
	var m model.Food
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("food", id)
		}
		return nil, wrapStoreErr("find food", err)
	}
	return mapper.FoodModelToEntity(&m), nil
}

// FindByIDs fetches a batch of catalog entries keyed by id. Unknown ids
// are simply absent from the result.
func (r *FoodRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]entity.Food, error) {
	foods := make(map[uint]entity.Food, len(ids))
	if len(ids) == 0 {
		return foods, nil
	}
	var rows []model.Food
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, wrapStoreErr("find foods", err)
	}
	for i := range rows {
		foods[rows[i].ID] = *mapper.FoodModelToEntity(&rows[i])
	}
	return foods, nil
}

// FindOrCreateByName matches a catalog entry by name, ignoring case, and
// creates a bare entry when no match exists.
func (r *FoodRepository) FindOrCreateByName(ctx context.Context, name string) (*entity.Food, error) {
	var m model.Food
	err := r.DB.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&m).Error
	if err == nil {
		return mapper.FoodModelToEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreErr("find food by name", err)
	}

	m = model.Food{Name: name}
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, wrapStoreErr("create food", err)
	}
	return mapper.FoodModelToEntity(&m), nil
}
