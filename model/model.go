package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is one physical stock entry. DeletedAt is a tombstone so
// usage/waste ledger rows stay resolvable after removal.
type InventoryItem struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	OwnerID           uint             `gorm:"not null;index" json:"owner_id"`
	FoodID            uint             `gorm:"not null;index" json:"food_id"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	Quantity          float64          `gorm:"not null" json:"quantity"`
	Unit              string           `gorm:"size:50;not null" json:"unit"`
	PurchaseDate      time.Time        `json:"purchase_date"`
	PurchaseQuantity  float64          `json:"purchase_quantity"`
	PurchasePrice     *decimal.Decimal `gorm:"type:numeric" json:"purchase_price"`
	PurchaseSource    string           `gorm:"size:255" json:"purchase_source"`
	ExpiryDate        *time.Time       `gorm:"index" json:"expiry_date"`
	StorageLocation   string           `gorm:"size:50;default:'pantry'" json:"storage_location"`
	Status            string           `gorm:"size:20;index" json:"status"`
	MinStockThreshold *float64         `json:"min_stock_threshold"`
	Brand             string           `gorm:"size:255" json:"brand"`
	Packaging         string           `gorm:"size:255" json:"packaging"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

// UsageRecord is append-only; rows are never updated or deleted.
type UsageRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	InventoryItemID uint      `gorm:"not null;index" json:"inventory_item_id"`
	OwnerID         uint      `gorm:"not null;index" json:"owner_id"`
	FoodID          uint      `gorm:"not null;index" json:"food_id"`
	UsedQuantity    float64   `gorm:"not null" json:"used_quantity"`
	UsageType       string    `gorm:"size:20;not null" json:"usage_type"`
	RecipeName      string    `gorm:"size:255" json:"recipe_name"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// WasteRecord is append-only; rows are never updated or deleted.
type WasteRecord struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	InventoryItemID uint            `gorm:"not null;index" json:"inventory_item_id"`
	OwnerID         uint            `gorm:"not null;index" json:"owner_id"`
	FoodID          uint            `gorm:"not null;index" json:"food_id"`
	FoodName        string          `gorm:"size:255" json:"food_name"`
	WastedQuantity  float64         `gorm:"not null" json:"wasted_quantity"`
	Reason          string          `gorm:"size:20;not null" json:"reason"`
	Value           decimal.Decimal `gorm:"type:numeric" json:"value"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

// Food is the read-only food catalog.
type Food struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Category string  `gorm:"size:255;index" json:"category"`
	Calories float64 `gorm:"default:0" json:"calories"`
	Protein  float64 `gorm:"default:0" json:"protein"`
	Carbs    float64 `gorm:"default:0" json:"carbs"`
	Fat      float64 `gorm:"default:0" json:"fat"`
}

// Recipe is the read-only recipe catalog.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Servings    int    `gorm:"default:1" json:"servings"`
}

// RecipeIngredient links a recipe to one required food quantity.
type RecipeIngredient struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	RecipeID uint    `gorm:"not null;index" json:"recipe_id"`
	FoodID   uint    `gorm:"not null" json:"food_id"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `gorm:"size:50;not null" json:"unit"`
}

// ShoppingList is a persisted list of things to buy.
type ShoppingList struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []ShoppingListItem `json:"items,omitempty"`
}

// ShoppingListItem is one line of a shopping list.
type ShoppingListItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ShoppingListID uint            `gorm:"not null;index" json:"shopping_list_id"`
	FoodID         uint            `gorm:"not null" json:"food_id"`
	FoodName       string          `gorm:"size:255" json:"food_name"`
	Quantity       float64         `gorm:"not null" json:"quantity"`
	Unit           string          `gorm:"size:50" json:"unit"`
	Priority       string          `gorm:"size:10;default:'LOW'" json:"priority"`
	EstimatedPrice decimal.Decimal `gorm:"type:numeric" json:"estimated_price"`
	Checked        bool            `gorm:"default:false" json:"checked"`
}

// Member is a household member.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  []byte    `gorm:"type:bytea;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
