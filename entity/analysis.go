package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiryAlerts partitions an owner's items into expiring and expired.
type ExpiryAlerts struct {
	ExpiringItems []InventoryItem `json:"expiring_items"`
	ExpiredItems  []InventoryItem `json:"expired_items"`
}

// ExpiryAnalysis summarizes the expiry state with recommendations.
type ExpiryAnalysis struct {
	TotalItems      int      `json:"total_items"`
	ExpiringCount   int      `json:"expiring_count"`
	ExpiredCount    int      `json:"expired_count"`
	LowStockCount   int      `json:"low_stock_count"`
	OutOfStockCount int      `json:"out_of_stock_count"`
	Recommendations []string `json:"recommendations"`
}

// SweepResult tallies a batch sweep; failed ids never abort the batch.
type SweepResult struct {
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	FailedIDs []uint `json:"failed_ids,omitempty"`
}

// AnalysisSummary is the window-wide rollup of an owner's inventory flow.
type AnalysisSummary struct {
	TotalItems  int             `json:"total_items"`
	TotalValue  decimal.Decimal `json:"total_value"`
	UsedItems   int             `json:"used_items"`
	WastedItems int             `json:"wasted_items"`
	UsedQty     float64         `json:"used_qty"`
	WastedQty   float64         `json:"wasted_qty"`
	WasteRate   float64         `json:"waste_rate"`
	UsageRate   float64         `json:"usage_rate"`
}

// CategoryAnalysis rolls usage and waste up per food category.
type CategoryAnalysis struct {
	Category       string          `json:"category"`
	ItemCount      int             `json:"item_count"`
	TotalValue     decimal.Decimal `json:"total_value"`
	UsedQuantity   float64         `json:"used_quantity"`
	WastedQuantity float64         `json:"wasted_quantity"`
	WasteRate      float64         `json:"waste_rate"`
	Efficiency     float64         `json:"efficiency"`
}

// UsagePattern describes how one food is consumed over the window.
type UsagePattern struct {
	FoodID         uint    `json:"food_id"`
	FoodName       string  `json:"food_name"`
	UsageFrequency int     `json:"usage_frequency"`
	AverageUsage   float64 `json:"average_usage"`
	TotalUsage     float64 `json:"total_usage"`
	WasteFrequency int     `json:"waste_frequency"`
	Efficiency     float64 `json:"efficiency"`
}

// WasteBreakdown is one slice of the waste pie (by reason or category).
type WasteBreakdown struct {
	Key        string          `json:"key"`
	Count      int             `json:"count"`
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

// WastedItemRank is one entry of the most-wasted ranking.
type WastedItemRank struct {
	FoodID      uint            `json:"food_id"`
	FoodName    string          `json:"food_name"`
	WastedQty   float64         `json:"wasted_qty"`
	WastedValue decimal.Decimal `json:"wasted_value"`
}

// WasteAnalysis breaks the window's waste down by reason and category.
type WasteAnalysis struct {
	TotalWasteValue decimal.Decimal  `json:"total_waste_value"`
	ByReason        []WasteBreakdown `json:"by_reason"`
	ByCategory      []WasteBreakdown `json:"by_category"`
	TopWastedItems  []WastedItemRank `json:"top_wasted_items"`
}

// Recommendation is one rule-derived purchasing hint.
type Recommendation struct {
	Kind             string          `json:"kind"`
	Message          string          `json:"message"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
}

// InventoryAnalysis is the full report returned by the analyzer.
type InventoryAnalysis struct {
	OwnerID          uint               `json:"owner_id"`
	WindowDays       int                `json:"window_days"`
	GeneratedAt      time.Time          `json:"generated_at"`
	Summary          AnalysisSummary    `json:"summary"`
	CategoryAnalysis []CategoryAnalysis `json:"category_analysis"`
	UsagePatterns    []UsagePattern     `json:"usage_patterns"`
	WasteAnalysis    WasteAnalysis      `json:"waste_analysis"`
	Recommendations  []Recommendation   `json:"recommendations"`
}

// PurchaseSuggestion proposes restocking one food.
type PurchaseSuggestion struct {
	FoodID            uint            `json:"food_id"`
	FoodName          string          `json:"food_name"`
	Unit              string          `json:"unit"`
	SuggestedQuantity float64         `json:"suggested_quantity"`
	Priority          Priority        `json:"priority"`
	EstimatedPrice    decimal.Decimal `json:"estimated_price"`
	Reason            string          `json:"reason"`
}

// ShoppingSuggestion is one line of the merged shopping proposal.
type ShoppingSuggestion struct {
	FoodID            uint            `json:"food_id"`
	FoodName          string          `json:"food_name"`
	Unit              string          `json:"unit"`
	SuggestedQuantity float64         `json:"suggested_quantity"`
	Priority          Priority        `json:"priority"`
	EstimatedPrice    decimal.Decimal `json:"estimated_price"`
}

// MissingIngredient is a shortfall of one recipe ingredient.
type MissingIngredient struct {
	FoodID    uint    `json:"food_id"`
	FoodName  string  `json:"food_name"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Unit      string  `json:"unit"`
}

// RecipeMatch annotates a recipe with its cookability against stock.
type RecipeMatch struct {
	Recipe             Recipe              `json:"recipe"`
	CanCook            bool                `json:"can_cook"`
	MissingIngredients []MissingIngredient `json:"missing_ingredients"`
}

// ConsumedIngredient reports one deduction made while cooking.
type ConsumedIngredient struct {
	FoodID   uint    `json:"food_id"`
	FoodName string  `json:"food_name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// RecipeShoppingList is the aggregate shortfall for a set of recipes.
type RecipeShoppingList struct {
	Items          []ShoppingSuggestion `json:"items"`
	CanCookRecipes []uint               `json:"can_cook_recipes"`
}
