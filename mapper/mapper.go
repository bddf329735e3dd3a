package mapper

import (
	"hearthbutler/entity"
	"hearthbutler/model"
	"hearthbutler/util"
)

// InventoryItemEntityToModel maps an InventoryItem entity to its model.
func InventoryItemEntityToModel(e *entity.InventoryItem) *model.InventoryItem {
	return &model.InventoryItem{
		ID:                e.ID,
		OwnerID:           e.OwnerID,
		FoodID:            e.FoodID,
		Name:              e.Name,
		Quantity:          e.Quantity,
		Unit:              e.Unit,
		PurchaseDate:      e.PurchaseDate,
		PurchaseQuantity:  e.PurchaseQuantity,
		PurchasePrice:     e.PurchasePrice,
		PurchaseSource:    e.PurchaseSource,
		ExpiryDate:        e.ExpiryDate,
		StorageLocation:   string(e.StorageLocation),
		Status:            string(e.Status),
		MinStockThreshold: e.MinStockThreshold,
		Brand:             e.Brand,
		Packaging:         e.Packaging,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// InventoryItemModelToEntity maps an InventoryItem model to its entity.
func InventoryItemModelToEntity(m *model.InventoryItem) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		FoodID:            m.FoodID,
		Name:              m.Name,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		PurchaseDate:      m.PurchaseDate,
		PurchaseQuantity:  m.PurchaseQuantity,
		PurchasePrice:     m.PurchasePrice,
		PurchaseSource:    m.PurchaseSource,
		ExpiryDate:        m.ExpiryDate,
		StorageLocation:   entity.StorageLocation(m.StorageLocation),
		Status:            entity.ItemStatus(m.Status),
		MinStockThreshold: m.MinStockThreshold,
		Brand:             m.Brand,
		Packaging:         m.Packaging,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// UsageRecordEntityToModel maps a UsageRecord entity to its model.
func UsageRecordEntityToModel(e *entity.UsageRecord) *model.UsageRecord {
	return &model.UsageRecord{
		ID:              e.ID,
		InventoryItemID: e.InventoryItemID,
		OwnerID:         e.OwnerID,
		FoodID:          e.FoodID,
		UsedQuantity:    e.UsedQuantity,
		UsageType:       string(e.UsageType),
		RecipeName:      e.RecipeName,
		CreatedAt:       e.CreatedAt,
	}
}

// UsageRecordModelToEntity maps a UsageRecord model to its entity.
func UsageRecordModelToEntity(m *model.UsageRecord) *entity.UsageRecord {
	return &entity.UsageRecord{
		ID:              m.ID,
		InventoryItemID: m.InventoryItemID,
		OwnerID:         m.OwnerID,
		FoodID:          m.FoodID,
		UsedQuantity:    m.UsedQuantity,
		UsageType:       entity.UsageType(m.UsageType),
		RecipeName:      m.RecipeName,
		CreatedAt:       m.CreatedAt,
	}
}

// WasteRecordEntityToModel maps a WasteRecord entity to its model.
func WasteRecordEntityToModel(e *entity.WasteRecord) *model.WasteRecord {
	return &model.WasteRecord{
		ID:              e.ID,
		InventoryItemID: e.InventoryItemID,
		OwnerID:         e.OwnerID,
		FoodID:          e.FoodID,
		FoodName:        e.FoodName,
		WastedQuantity:  e.WastedQuantity,
		Reason:          string(e.Reason),
		Value:           e.Value,
		CreatedAt:       e.CreatedAt,
	}
}

// WasteRecordModelToEntity maps a WasteRecord model to its entity.
func WasteRecordModelToEntity(m *model.WasteRecord) *entity.WasteRecord {
	return &entity.WasteRecord{
		ID:              m.ID,
		InventoryItemID: m.InventoryItemID,
		OwnerID:         m.OwnerID,
		FoodID:          m.FoodID,
		FoodName:        m.FoodName,
		WastedQuantity:  m.WastedQuantity,
		Reason:          entity.WasteReason(m.Reason),
		Value:           m.Value,
		CreatedAt:       m.CreatedAt,
	}
}

// FoodModelToEntity maps a Food model to its entity.
func FoodModelToEntity(m *model.Food) *entity.Food {
	return &entity.Food{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fat:      m.Fat,
	}
}

// RecipeModelToEntity maps a Recipe model plus its ingredient rows to the
// entity form the engine consumes.
func RecipeModelToEntity(m *model.Recipe, ingredients []model.RecipeIngredient) *entity.Recipe {
	r := &entity.Recipe{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Servings:    m.Servings,
	}
	for _, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, entity.RecipeIngredient{
			FoodID:   ing.FoodID,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return r
}

// ShoppingListModelToEntity maps a ShoppingList model to its entity.
func ShoppingListModelToEntity(m *model.ShoppingList) *entity.ShoppingList {
	l := &entity.ShoppingList{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
	for _, it := range m.Items {
		l.Items = append(l.Items, entity.ShoppingListItem{
			ID:             it.ID,
			ShoppingListID: it.ShoppingListID,
			FoodID:         it.FoodID,
			FoodName:       it.FoodName,
			Quantity:       it.Quantity,
			Unit:           it.Unit,
			Priority:       entity.Priority(it.Priority),
			EstimatedPrice: it.EstimatedPrice,
			Checked:        it.Checked,
		})
	}
	return l
}

// ShoppingListItemEntityToModel maps one shopping list line to its model.
func ShoppingListItemEntityToModel(e *entity.ShoppingListItem) *model.ShoppingListItem {
	return &model.ShoppingListItem{
		ID:             e.ID,
		ShoppingListID: e.ShoppingListID,
		FoodID:         e.FoodID,
		FoodName:       e.FoodName,
		Quantity:       e.Quantity,
		Unit:           e.Unit,
		Priority:       string(e.Priority),
		EstimatedPrice: e.EstimatedPrice,
		Checked:        e.Checked,
	}
}

// MemberEntityToModel maps a Member entity to its model, hashing the
// plaintext password on the way in.
func MemberEntityToModel(e *entity.Member) *model.Member {
	hashed, err := util.HashPassword(e.Password)
	if err != nil {
		return nil
	}
	return &model.Member{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Password: hashed,
	}
}

// MemberModelToEntity maps a Member model to its entity.
func MemberModelToEntity(m *model.Member) *entity.Member {
	return &entity.Member{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  string(m.Password),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
