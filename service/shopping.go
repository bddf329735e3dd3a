package service

import (
	"context"
	"sort"
	"strings"

	"hearthbutler/apperr"
	"hearthbutler/entity"

	"github.com/shopspring/decimal"
)

// suggestionSource produces analyzer-derived purchase suggestions.
type suggestionSource interface {
	GeneratePurchaseSuggestions(ctx context.Context, ownerID uint) ([]entity.PurchaseSuggestion, error)
}

// inventoryReader is the live-inventory slice the shopping flow reads.
type inventoryReader interface {
	GetInventoryItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error)
}

// listStore persists shopping lists.
type listStore interface {
	CreateList(ctx context.Context, list *entity.ShoppingList) error
}

// ShoppingIntegration turns low-stock detection and analyzer output into
// shopping-list suggestions.
type ShoppingIntegration struct {
	inventory inventoryReader
	analyzer  suggestionSource
	lists     listStore
}

// NewShoppingIntegration wires the shopping flow.
func NewShoppingIntegration(inventory inventoryReader, analyzer suggestionSource, lists listStore) *ShoppingIntegration {
	return &ShoppingIntegration{
		inventory: inventory,
		analyzer:  analyzer,
		lists:     lists,
	}
}

func priorityRank(p entity.Priority) int {
	switch p {
	case entity.PriorityHigh:
		return 2
	case entity.PriorityMedium:
		return 1
	default:
		return 0
	}
}

// GenerateShoppingSuggestions merges live low-stock detection with the
// analyzer's purchase suggestions into one prioritized list, deduplicated
// by food keeping the higher priority and larger quantity.
func (s *ShoppingIntegration) GenerateShoppingSuggestions(ctx context.Context, ownerID uint) ([]entity.ShoppingSuggestion, error) {
	merged := make(map[uint]*entity.ShoppingSuggestion)

	analyzed, err := s.analyzer.GeneratePurchaseSuggestions(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, p := range analyzed {
		merged[p.FoodID] = &entity.ShoppingSuggestion{
			FoodID:            p.FoodID,
			FoodName:          p.FoodName,
			Unit:              p.Unit,
			SuggestedQuantity: p.SuggestedQuantity,
			Priority:          p.Priority,
			EstimatedPrice:    p.EstimatedPrice,
		}
	}

	// Live pass: anything currently below threshold or out of stock gets
	// suggested even without usage history.
	items, err := s.inventory.GetInventoryItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		low := entity.IsLowStock(it.Quantity, it.MinStockThreshold)
		if it.Status != entity.StatusOutOfStock && !low {
			continue
		}
		priority := entity.PriorityMedium
		if it.Status == entity.StatusOutOfStock {
			priority = entity.PriorityHigh
		}
		qty := it.PurchaseQuantity
		if it.MinStockThreshold != nil && *it.MinStockThreshold > it.Quantity {
			qty = *it.MinStockThreshold * 2
		}
		if qty <= 0 {
			continue
		}
		existing, ok := merged[it.FoodID]
		if !ok {
			merged[it.FoodID] = &entity.ShoppingSuggestion{
				FoodID:            it.FoodID,
				FoodName:          it.Name,
				Unit:              it.Unit,
				SuggestedQuantity: qty,
				Priority:          priority,
				EstimatedPrice:    it.UnitPrice().Mul(decimal.NewFromFloat(qty)),
			}
			continue
		}
		if priorityRank(priority) > priorityRank(existing.Priority) {
			existing.Priority = priority
		}
		if qty > existing.SuggestedQuantity {
			existing.SuggestedQuantity = qty
			existing.EstimatedPrice = it.UnitPrice().Mul(decimal.NewFromFloat(qty))
		}
	}

	out := make([]entity.ShoppingSuggestion, 0, len(merged))
	for _, sg := range merged {
		out = append(out, *sg)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := priorityRank(out[i].Priority), priorityRank(out[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return out[i].FoodID < out[j].FoodID
	})
	return out, nil
}

// CreateInventoryBasedShoppingList persists a list seeded with the current
// suggestions and returns it with the suggestions embedded.
func (s *ShoppingIntegration) CreateInventoryBasedShoppingList(ctx context.Context, ownerID uint, name string) (*entity.ShoppingList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	suggestions, err := s.GenerateShoppingSuggestions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	list := &entity.ShoppingList{
		OwnerID: ownerID,
		Name:    name,
	}
	for _, sg := range suggestions {
		list.Items = append(list.Items, entity.ShoppingListItem{
			FoodID:         sg.FoodID,
			FoodName:       sg.FoodName,
			Quantity:       sg.SuggestedQuantity,
			Unit:           sg.Unit,
			Priority:       sg.Priority,
			EstimatedPrice: sg.EstimatedPrice,
		})
	}
	if err := s.lists.CreateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
