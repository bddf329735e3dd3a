package service

import (
	"context"
	"testing"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(store *fakeItemStore, ledger *fakeLedger) *InventoryTracker {
	if ledger == nil {
		ledger = &fakeLedger{}
	}
	tr := NewInventoryTracker(store, ledger, nil, testConfig())
	tr.now = func() time.Time { return testNow }
	return tr
}

func TestCreateInventoryItemValidation(t *testing.T) {
	tr := newTestTracker(&fakeItemStore{}, nil)
	ctx := context.Background()

	base := entity.InventoryItem{OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "g"}

	testCases := []struct {
		name   string
		mutate func(*entity.InventoryItem)
	}{
		{"zero quantity", func(it *entity.InventoryItem) { it.Quantity = 0 }},
		{"negative quantity", func(it *entity.InventoryItem) { it.Quantity = -1 }},
		{"blank unit", func(it *entity.InventoryItem) { it.Unit = "  " }},
		{"missing owner", func(it *entity.InventoryItem) { it.OwnerID = 0 }},
		{"missing food", func(it *entity.InventoryItem) { it.FoodID = 0 }},
		{"negative threshold", func(it *entity.InventoryItem) { it.MinStockThreshold = floatPtr(-1) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := tr.CreateInventoryItem(ctx, input)
			var ve *apperr.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateInventoryItemDefaultsAndStatus(t *testing.T) {
	store := &fakeItemStore{}
	tr := newTestTracker(store, nil)

	item, err := tr.CreateInventoryItem(context.Background(), entity.InventoryItem{
		OwnerID:    1,
		FoodID:     2,
		Name:       "Milk",
		Quantity:   1000,
		Unit:       "ml",
		ExpiryDate: inDays(2),
	})
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.Equal(t, testNow, item.PurchaseDate)
	assert.Equal(t, 1000.0, item.PurchaseQuantity)
	assert.Equal(t, entity.LocationPantry, item.StorageLocation)
	assert.Equal(t, entity.StatusExpiring, item.Status)
}

func TestGetInventoryItemsRecomputesAndFiltersStatus(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		// Stored statuses are stale on purpose.
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Yogurt", Quantity: 4, Unit: "pc", ExpiryDate: inDays(1), Status: entity.StatusFresh},
		{ID: 2, OwnerID: 1, FoodID: 2, Name: "Rice", Quantity: 900, Unit: "g", Status: entity.StatusExpiring},
		{ID: 3, OwnerID: 2, FoodID: 3, Name: "Not mine", Quantity: 1, Unit: "pc"},
	}}
	tr := newTestTracker(store, nil)

	items, err := tr.GetInventoryItems(context.Background(), 1, entity.ItemFilter{Status: entity.StatusExpiring})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, entity.StatusExpiring, items[0].Status)
}

func TestGetInventoryItemsOrdersBySeverityThenExpiry(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Fresh far", Quantity: 5, Unit: "pc", ExpiryDate: inDays(20)},
		{ID: 2, OwnerID: 1, FoodID: 2, Name: "Expired", Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1)},
		{ID: 3, OwnerID: 1, FoodID: 3, Name: "Expiring late", Quantity: 5, Unit: "pc", ExpiryDate: inDays(3)},
		{ID: 4, OwnerID: 1, FoodID: 4, Name: "Expiring soon", Quantity: 5, Unit: "pc", ExpiryDate: inDays(1)},
		{ID: 5, OwnerID: 1, FoodID: 5, Name: "Empty", Quantity: 0, Unit: "pc"},
	}}
	tr := newTestTracker(store, nil)

	items, err := tr.GetInventoryItems(context.Background(), 1, entity.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 5)

	got := make([]uint, 0, len(items))
	for _, it := range items {
		got = append(got, it.ID)
	}
	assert.Equal(t, []uint{5, 2, 4, 3, 1}, got)
}

func TestUpdateInventoryItemRecomputesStatus(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Flour", Quantity: 500, Unit: "g", Status: entity.StatusFresh},
	}}
	tr := newTestTracker(store, nil)

	item, err := tr.UpdateInventoryItem(context.Background(), 1, 1, ItemPatch{Quantity: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOutOfStock, item.Status)
	assert.Equal(t, 1, store.saveCalls)
}

func TestUpdateInventoryItemClearsExpiry(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Eggs", Quantity: 6, Unit: "pc", ExpiryDate: inDays(-1), Status: entity.StatusExpired},
	}}
	tr := newTestTracker(store, nil)

	item, err := tr.UpdateInventoryItem(context.Background(), 1, 1, ItemPatch{ClearExpiry: true})
	require.NoError(t, err)
	assert.Nil(t, item.ExpiryDate)
	assert.Equal(t, entity.StatusFresh, item.Status)
}

func TestUpdateInventoryItemUnknownID(t *testing.T) {
	tr := newTestTracker(&fakeItemStore{}, nil)
	_, err := tr.UpdateInventoryItem(context.Background(), 1, 99, ItemPatch{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestConsumeValidatesDemands(t *testing.T) {
	tr := newTestTracker(&fakeItemStore{}, nil)
	ctx := context.Background()

	var ve *apperr.ValidationError
	_, err := tr.Consume(ctx, 1, nil, entity.UsageManual, "")
	assert.ErrorAs(t, err, &ve)

	_, err = tr.Consume(ctx, 1, []entity.IngredientDemand{{FoodID: 1, Amount: 0}}, entity.UsageManual, "")
	assert.ErrorAs(t, err, &ve)

	_, err = tr.Consume(ctx, 1, []entity.IngredientDemand{{FoodID: 0, Amount: 5}}, entity.UsageManual, "")
	assert.ErrorAs(t, err, &ve)
}

func TestConsumePassesThroughStoreRecords(t *testing.T) {
	want := []entity.UsageRecord{{ID: "u1", FoodID: 1, UsedQuantity: 50, UsageType: entity.UsageCooking}}
	store := &fakeItemStore{
		deduct: func(demands []entity.IngredientDemand, usageType entity.UsageType, label string) ([]entity.UsageRecord, error) {
			assert.Equal(t, entity.UsageCooking, usageType)
			assert.Equal(t, "Pancakes", label)
			return want, nil
		},
	}
	tr := newTestTracker(store, nil)

	records, err := tr.Consume(context.Background(), 1, []entity.IngredientDemand{{FoodID: 1, Amount: 50}}, entity.UsageCooking, "Pancakes")
	require.NoError(t, err)
	assert.Equal(t, want, records)
}

func TestConsumeSurfacesShortfall(t *testing.T) {
	store := &fakeItemStore{
		deduct: func([]entity.IngredientDemand, entity.UsageType, string) ([]entity.UsageRecord, error) {
			return nil, &apperr.InsufficientStockError{Shortfalls: []apperr.Shortfall{{FoodID: 1, Required: 100, Available: 20}}}
		},
	}
	tr := newTestTracker(store, nil)

	_, err := tr.Consume(context.Background(), 1, []entity.IngredientDemand{{FoodID: 1, Amount: 100}}, entity.UsageManual, "")
	assert.True(t, apperr.IsInsufficientStock(err))
}

func TestGetInventoryStats(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Milk", Quantity: 1000, Unit: "ml", PurchaseQuantity: 1000, PurchasePrice: price(2), ExpiryDate: inDays(1)},
		{ID: 2, OwnerID: 1, FoodID: 2, Name: "Rice", Quantity: 0, Unit: "g"},
		{ID: 3, OwnerID: 1, FoodID: 3, Name: "Beans", Quantity: 400, Unit: "g"},
	}}
	ledger := &fakeLedger{waste: []entity.WasteRecord{
		{ID: "w1", InventoryItemID: 9, OwnerID: 1, FoodID: 4, WastedQuantity: 1, CreatedAt: testNow.AddDate(0, 0, -2)},
		{ID: "w2", InventoryItemID: 9, OwnerID: 1, FoodID: 4, WastedQuantity: 1, CreatedAt: testNow.AddDate(0, 0, -3)},
	}}
	tr := newTestTracker(store, ledger)

	stats, err := tr.GetInventoryStats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 1, stats.ByStatus[entity.StatusExpiring])
	assert.Equal(t, 1, stats.ByStatus[entity.StatusOutOfStock])
	assert.Equal(t, 1, stats.ByStatus[entity.StatusFresh])
	assert.Equal(t, 1, stats.WasteItems, "distinct wasted items, not events")
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(2)), "full remaining milk at 2 per 1000ml")
}

func TestDeleteInventoryItemChecksOwnership(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 2, FoodID: 1, Name: "Someone else's", Quantity: 1, Unit: "pc"},
	}}
	tr := newTestTracker(store, nil)

	err := tr.DeleteInventoryItem(context.Background(), 1, 1)
	assert.True(t, apperr.IsNotFound(err))
	assert.Len(t, store.items, 1)
}
