package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus is the derived freshness/stock state of an inventory item.
type ItemStatus string

const (
	StatusFresh      ItemStatus = "FRESH"
	StatusExpiring   ItemStatus = "EXPIRING"
	StatusExpired    ItemStatus = "EXPIRED"
	StatusLowStock   ItemStatus = "LOW_STOCK"
	StatusOutOfStock ItemStatus = "OUT_OF_STOCK"
)

// StorageLocation is where an item is kept in the household.
type StorageLocation string

const (
	LocationFridge  StorageLocation = "fridge"
	LocationFreezer StorageLocation = "freezer"
	LocationPantry  StorageLocation = "pantry"
	LocationSpices  StorageLocation = "spice_rack"
	LocationOther   StorageLocation = "other"
)

// UsageType classifies a consumption event.
type UsageType string

const (
	UsageCooking UsageType = "COOKING"
	UsageMealLog UsageType = "MEAL_LOG"
	UsageManual  UsageType = "MANUAL"
	UsageRecipe  UsageType = "RECIPE"
	UsageSharing UsageType = "SHARING"
	UsageOther   UsageType = "OTHER"
)

// WasteReason classifies a disposal event.
type WasteReason string

const (
	WasteExpired WasteReason = "EXPIRED"
	WasteSpoiled WasteReason = "SPOILED"
	WasteDamaged WasteReason = "DAMAGED"
	WasteOther   WasteReason = "OTHER"
)

// Priority ranks shopping and restock suggestions.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// InventoryItem is one trackable quantity of a food owned by a member.
type InventoryItem struct {
	ID                uint             `json:"id"`
	OwnerID           uint             `json:"owner_id"`
	FoodID            uint             `json:"food_id"`
	Name              string           `json:"name"`
	Quantity          float64          `json:"quantity"`
	Unit              string           `json:"unit"`
	PurchaseDate      time.Time        `json:"purchase_date"`
	PurchaseQuantity  float64          `json:"purchase_quantity"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price,omitempty"`
	PurchaseSource    string           `json:"purchase_source,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	StorageLocation   StorageLocation  `json:"storage_location"`
	Status            ItemStatus       `json:"status"`
	MinStockThreshold *float64         `json:"min_stock_threshold,omitempty"`
	Brand             string           `json:"brand,omitempty"`
	Packaging         string           `json:"packaging,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// UnitPrice derives the per-unit price from the original purchase,
// or zero when the purchase price or quantity is unknown.
func (it *InventoryItem) UnitPrice() decimal.Decimal {
	if it.PurchasePrice == nil || it.PurchaseQuantity <= 0 {
		return decimal.Zero
	}
	return it.PurchasePrice.Div(decimal.NewFromFloat(it.PurchaseQuantity))
}

// CurrentValue is the money still held in the item's remaining quantity.
func (it *InventoryItem) CurrentValue() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromFloat(it.Quantity))
}

// UsageRecord is an immutable ledger entry for one consumption event.
// OwnerID and FoodID are denormalized so analytics survive item deletion.
type UsageRecord struct {
	ID              string    `json:"id"`
	InventoryItemID uint      `json:"inventory_item_id"`
	OwnerID         uint      `json:"owner_id"`
	FoodID          uint      `json:"food_id"`
	UsedQuantity    float64   `json:"used_quantity"`
	UsageType       UsageType `json:"usage_type"`
	RecipeName      string    `json:"recipe_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// WasteRecord is an immutable ledger entry for one disposal event.
type WasteRecord struct {
	ID              string          `json:"id"`
	InventoryItemID uint            `json:"inventory_item_id"`
	OwnerID         uint            `json:"owner_id"`
	FoodID          uint            `json:"food_id"`
	FoodName        string          `json:"food_name"`
	WastedQuantity  float64         `json:"wasted_quantity"`
	Reason          WasteReason     `json:"reason"`
	Value           decimal.Decimal `json:"value"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Food is a read-only catalog entry.
type Food struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is a read-only catalog entry with its ingredient requirements.
type Recipe struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Servings    int                `json:"servings"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

// RecipeIngredient is one required (foodId, quantity, unit) of a recipe.
type RecipeIngredient struct {
	FoodID   uint    `json:"food_id"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// IngredientDemand is one requested (foodId, amount) of a deduction.
type IngredientDemand struct {
	FoodID uint    `json:"food_id"`
	Amount float64 `json:"amount"`
}

// ItemFilter narrows owner inventory listings.
type ItemFilter struct {
	Status   ItemStatus
	Location StorageLocation
	Category string
	FoodID   uint
}

// InventoryStats summarizes an owner's current inventory.
type InventoryStats struct {
	TotalItems int                `json:"total_items"`
	ByStatus   map[ItemStatus]int `json:"by_status"`
	TotalValue decimal.Decimal    `json:"total_value"`
	WasteItems int                `json:"waste_items"`
}

// ShoppingList is a persisted list of things to buy.
type ShoppingList struct {
	ID        uint               `json:"id"`
	OwnerID   uint               `json:"owner_id"`
	Name      string             `json:"name"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// ShoppingListItem is one line of a shopping list.
type ShoppingListItem struct {
	ID             uint            `json:"id"`
	ShoppingListID uint            `json:"shopping_list_id"`
	FoodID         uint            `json:"food_id"`
	FoodName       string          `json:"food_name"`
	Quantity       float64         `json:"quantity"`
	Unit           string          `json:"unit"`
	Priority       Priority        `json:"priority"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	Checked        bool            `json:"checked"`
}

// Member is a household member owning inventory.
type Member struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MarshalJSON hides the password field when a Member is serialized.
func (m Member) MarshalJSON() ([]byte, error) {
	type Alias Member
	return json.Marshal(&struct {
		*Alias
		Password string `json:"-"`
	}{
		Alias:    (*Alias)(&m),
		Password: "",
	})
}

// NotificationPayload is a channel-agnostic message handed to the
// notification collaborator; the engine never knows the transport.
type NotificationPayload struct {
	OwnerID uint              `json:"owner_id"`
	Kind    string            `json:"kind"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}
