package repository

import (
	"testing"
	"time"

	"hearthbutler/entity"
	"hearthbutler/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const planWindow = 3 * 24 * time.Hour

func expiresIn(n int) *time.Time {
	t := planNow.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func stockRow(id, foodID uint, qty float64, expiry *time.Time) model.InventoryItem {
	return model.InventoryItem{ID: id, OwnerID: 1, FoodID: foodID, Quantity: qty, ExpiryDate: expiry}
}

func TestPlanDeductionEarliestExpiryFirst(t *testing.T) {
	rows := []model.InventoryItem{
		stockRow(1, 10, 300, nil), // no expiry drains last
		stockRow(2, 10, 200, expiresIn(10)),
		stockRow(3, 10, 100, expiresIn(2)),
	}
	demands := []entity.IngredientDemand{{FoodID: 10, Amount: 250}}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	require.Empty(t, shortfalls)
	require.Len(t, plan, 2)

	assert.Equal(t, uint(3), plan[0].row.ID)
	assert.Equal(t, 100.0, plan[0].take)
	assert.Equal(t, uint(2), plan[1].row.ID)
	assert.Equal(t, 150.0, plan[1].take)
}

func TestPlanDeductionSkipsExpiredAndEmptyRows(t *testing.T) {
	rows := []model.InventoryItem{
		stockRow(1, 10, 500, expiresIn(-1)), // expired stock never counts
		stockRow(2, 10, 0, expiresIn(5)),
		stockRow(3, 10, 80, expiresIn(5)),
	}
	demands := []entity.IngredientDemand{{FoodID: 10, Amount: 100}}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	assert.Nil(t, plan)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, uint(10), shortfalls[0].FoodID)
	assert.Equal(t, 100.0, shortfalls[0].Required)
	assert.Equal(t, 80.0, shortfalls[0].Available)
}

func TestPlanDeductionAllOrNothing(t *testing.T) {
	rows := []model.InventoryItem{
		stockRow(1, 10, 500, expiresIn(5)),
		stockRow(2, 20, 30, expiresIn(5)),
	}
	demands := []entity.IngredientDemand{
		{FoodID: 10, Amount: 100}, // satisfiable on its own
		{FoodID: 20, Amount: 50},
		{FoodID: 30, Amount: 1},
	}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	require.Nil(t, plan, "a single shortfall must void the whole plan")
	require.Len(t, shortfalls, 2)
	assert.Equal(t, uint(20), shortfalls[0].FoodID)
	assert.Equal(t, uint(30), shortfalls[1].FoodID)
	assert.Equal(t, 0.0, shortfalls[1].Available)
}

func TestPlanDeductionTakesSumToDemand(t *testing.T) {
	rows := []model.InventoryItem{
		stockRow(1, 10, 40, expiresIn(1)),
		stockRow(2, 10, 40, expiresIn(2)),
		stockRow(3, 10, 40, nil),
	}
	demands := []entity.IngredientDemand{{FoodID: 10, Amount: 95}}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	require.Empty(t, shortfalls)

	total := 0.0
	for _, a := range plan {
		assert.Greater(t, a.take, 0.0)
		total += a.take
	}
	assert.InDelta(t, 95.0, total, 1e-9)
}

func TestPlanDeductionTiesBreakOnID(t *testing.T) {
	same := expiresIn(4)
	rows := []model.InventoryItem{
		stockRow(7, 10, 50, same),
		stockRow(3, 10, 50, same),
	}
	demands := []entity.IngredientDemand{{FoodID: 10, Amount: 60}}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	require.Empty(t, shortfalls)
	require.Len(t, plan, 2)
	assert.Equal(t, uint(3), plan[0].row.ID)
	assert.Equal(t, uint(7), plan[1].row.ID)
}

func TestPlanDeductionMultipleDemandsShareRows(t *testing.T) {
	rows := []model.InventoryItem{
		stockRow(1, 10, 100, expiresIn(5)),
		stockRow(2, 20, 100, expiresIn(5)),
	}
	demands := []entity.IngredientDemand{
		{FoodID: 10, Amount: 100},
		{FoodID: 20, Amount: 100},
	}

	plan, shortfalls := planDeduction(rows, demands, planNow, planWindow)
	require.Empty(t, shortfalls)
	require.Len(t, plan, 2)
	assert.Equal(t, 100.0, plan[0].take)
	assert.Equal(t, 100.0, plan[1].take)
}
