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

// ShoppingListRepository persists shopping lists and their lines.
type ShoppingListRepository struct {
	DB *gorm.DB
}

// NewShoppingListRepository creates and returns a new ShoppingListRepository.
func NewShoppingListRepository(db *gorm.DB) *ShoppingListRepository {
	return &ShoppingListRepository{DB: db}
}

// CreateList persists a list together with its seeded lines and writes the
// generated ids back into the entity.
func (r *ShoppingListRepository) CreateList(ctx context.Context, list *entity.ShoppingList) error {
	m := &model.ShoppingList{
		OwnerID: list.OwnerID,
		Name:    list.Name,
	}
	for i := range list.Items {
		m.Items = append(m.Items, *mapper.ShoppingListItemEntityToModel(&list.Items[i]))
	}
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreErr("create shopping list", err)
	}
	created := mapper.ShoppingListModelToEntity(m)
	*list = *created
	return nil
}

// AppendItems adds lines to an existing list.
func (r *ShoppingListRepository) AppendItems(ctx context.Context, listID uint, items []entity.ShoppingListItem) error {
	var m model.ShoppingList
	if err := r.DB.WithContext(ctx).First(&m, listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("shopping list", listID)
		}
		return wrapStoreErr("find shopping list", err)
	}
	rows := make([]model.ShoppingListItem, 0, len(items))
	for i := range items {
		row := mapper.ShoppingListItemEntityToModel(&items[i])
		row.ShoppingListID = listID
		rows = append(rows, *row)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := r.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return wrapStoreErr("append shopping list items", err)
	}
	return nil
}

// FindListByID fetches a list with its lines.
func (r *ShoppingListRepository) FindListByID(ctx context.Context, id uint) (*entity.ShoppingList, error) {
	var m model.ShoppingList
	err := r.DB.WithContext(ctx).Preload("Items").First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shopping list", id)
		}
		return nil, wrapStoreErr("find shopping list", err)
	}
	return mapper.ShoppingListModelToEntity(&m), nil
}
