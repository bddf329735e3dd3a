package repository

import (
	"math"
	"sort"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/model"
)

// allocation is one planned deduction against a single item row.
type allocation struct {
	row  *model.InventoryItem
	take float64
}

// planDeduction is the pure verify phase of the two-phase deduction. It
// considers only non-expired rows with stock, orders candidates earliest
// expiry first (no expiry last), and either satisfies every demand or
// reports every shortfall without planning any deduction.
func planDeduction(rows []model.InventoryItem, demands []entity.IngredientDemand, now time.Time, expiringWindow time.Duration) ([]allocation, []apperr.Shortfall) {
	byFood := make(map[uint][]*model.InventoryItem)
	for i := range rows {
		it := &rows[i]
		if it.Quantity <= 0 {
			continue
		}
		st := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, expiringWindow)
		if st == entity.StatusExpired {
			continue
		}
		byFood[it.FoodID] = append(byFood[it.FoodID], it)
	}
	for _, candidates := range byFood {
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i].ExpiryDate, candidates[j].ExpiryDate
			switch {
			case a == nil && b == nil:
				return candidates[i].ID < candidates[j].ID
			case a == nil:
				return false
			case b == nil:
				return true
			case a.Equal(*b):
				return candidates[i].ID < candidates[j].ID
			default:
				return a.Before(*b)
			}
		})
	}

	var shortfalls []apperr.Shortfall
	for _, d := range demands {
		avail := 0.0
		for _, it := range byFood[d.FoodID] {
			avail += it.Quantity
		}
		if avail+quantityEpsilon < d.Amount {
			shortfalls = append(shortfalls, apperr.Shortfall{
				FoodID:    d.FoodID,
				Required:  d.Amount,
				Available: avail,
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, shortfalls
	}

	var plan []allocation
	for _, d := range demands {
		remaining := d.Amount
		for _, it := range byFood[d.FoodID] {
			if remaining <= quantityEpsilon {
				break
			}
			take := math.Min(remaining, it.Quantity)
			plan = append(plan, allocation{row: it, take: take})
			it.Quantity -= take
			remaining -= take
		}
	}
	return plan, nil
}
