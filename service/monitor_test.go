package service

import (
	"context"
	"testing"
	"time"

	"hearthbutler/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(store *fakeItemStore, notifier Notifier) *ExpiryMonitor {
	m := NewExpiryMonitor(store, notifier, nil, testConfig())
	m.now = func() time.Time { return testNow }
	return m
}

func TestUpdateExpiryStatusesPersistsOnlyChanges(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1), Status: entity.StatusFresh},
		{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(2), Status: entity.StatusExpiring},
		{ID: 3, OwnerID: 1, FoodID: 3, Quantity: 5, Unit: "pc", Status: entity.StatusFresh},
	}}
	m := newTestMonitor(store, nil)

	changed, err := m.UpdateExpiryStatuses(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, changed)
	assert.Equal(t, entity.StatusExpired, store.statusWrites[1])
	_, wroteUnchanged := store.statusWrites[2]
	assert.False(t, wroteUnchanged, "an already-correct status must not be rewritten")
}

func TestUpdateExpiryStatusesIsIdempotent(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1), Status: entity.StatusFresh},
	}}
	m := newTestMonitor(store, nil)
	ctx := context.Background()

	first, err := m.UpdateExpiryStatuses(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := m.UpdateExpiryStatuses(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestUpdateExpiryStatusesToleratesItemFailures(t *testing.T) {
	store := &fakeItemStore{
		items: []entity.InventoryItem{
			{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1), Status: entity.StatusFresh},
			{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1), Status: entity.StatusFresh},
		},
		failStatusFor: map[uint]bool{1: true},
	}
	m := newTestMonitor(store, nil)

	changed, err := m.UpdateExpiryStatuses(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, entity.StatusExpired, store.statusWrites[2])
}

func TestGetExpiryAlertsPartition(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-2)},
		{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(1)},
		{ID: 3, OwnerID: 1, FoodID: 3, Quantity: 5, Unit: "pc", ExpiryDate: inDays(30)},
		{ID: 4, OwnerID: 1, FoodID: 4, Quantity: 0, Unit: "pc", ExpiryDate: inDays(-2)},
	}}
	m := newTestMonitor(store, nil)

	alerts, err := m.GetExpiryAlerts(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, alerts.ExpiringItems, 1)
	assert.Equal(t, uint(2), alerts.ExpiringItems[0].ID)
	require.Len(t, alerts.ExpiredItems, 1)
	assert.Equal(t, uint(1), alerts.ExpiredItems[0].ID, "out-of-stock rows never alert as expired")
}

func TestHandleExpiredItemsWastesAndRemoves(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Name: "Old milk", Quantity: 500, Unit: "ml", PurchaseQuantity: 1000, PurchasePrice: price(2), ExpiryDate: inDays(-1)},
		{ID: 2, OwnerID: 1, FoodID: 2, Name: "Old bread", Quantity: 1, Unit: "pc", ExpiryDate: inDays(-1)},
	}}
	m := newTestMonitor(store, nil)

	result, err := m.HandleExpiredItems(context.Background(), 1, []uint{1, 2}, "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, result.FailedIDs)
	assert.Empty(t, store.items, "wasted items leave the inventory")
	assert.Equal(t, []uint{1, 2}, store.wastedIDs)
}

func TestHandleExpiredItemsEmptyListTargetsAllExpired(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 500, Unit: "ml", ExpiryDate: inDays(-1)},
		{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(10)},
		// Stale FRESH column; the recomputed status decides.
		{ID: 3, OwnerID: 1, FoodID: 3, Quantity: 1, Unit: "pc", ExpiryDate: inDays(-2), Status: entity.StatusFresh},
		// Already out of stock: not expired, nothing left to waste.
		{ID: 4, OwnerID: 1, FoodID: 4, Quantity: 0, Unit: "pc", ExpiryDate: inDays(-1)},
	}}
	m := newTestMonitor(store, nil)

	result, err := m.HandleExpiredItems(context.Background(), 1, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, []uint{1, 3}, store.wastedIDs)
	assert.Len(t, store.items, 2)
}

func TestHandleExpiredItemsOneFailureDoesNotAbort(t *testing.T) {
	store := &fakeItemStore{
		items: []entity.InventoryItem{
			{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 1, Unit: "pc", ExpiryDate: inDays(-1)},
			{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 1, Unit: "pc", ExpiryDate: inDays(-1)},
		},
		failWasteFor: map[uint]bool{1: true},
	}
	m := newTestMonitor(store, nil)

	result, err := m.HandleExpiredItems(context.Background(), 1, []uint{1, 2}, entity.WasteSpoiled)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, []uint{1}, result.FailedIDs)
	assert.Len(t, store.items, 1)
}

func TestGenerateExpiryNotifications(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(1)},
		{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(2)},
		{ID: 3, OwnerID: 1, FoodID: 3, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1)},
	}}
	notifier := &fakeNotifier{}
	m := newTestMonitor(store, notifier)

	payloads, err := m.GenerateExpiryNotifications(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, payloads, 2)
	assert.Equal(t, "expiry_warning", payloads[0].Kind)
	assert.Equal(t, "2", payloads[0].Data["count"])
	assert.Equal(t, "expired", payloads[1].Kind)
	assert.Len(t, notifier.sent, 2)
}

func TestGenerateExpiryNotificationsQuietWhenNothingDue(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(30)},
	}}
	notifier := &fakeNotifier{}
	m := newTestMonitor(store, notifier)

	payloads, err := m.GenerateExpiryNotifications(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, payloads)
	assert.Empty(t, notifier.sent)
}

func TestGetExpiryAnalysisCountsAndRecommendations(t *testing.T) {
	store := &fakeItemStore{items: []entity.InventoryItem{
		{ID: 1, OwnerID: 1, FoodID: 1, Quantity: 5, Unit: "pc", ExpiryDate: inDays(1)},
		{ID: 2, OwnerID: 1, FoodID: 2, Quantity: 5, Unit: "pc", ExpiryDate: inDays(-1)},
		{ID: 3, OwnerID: 1, FoodID: 3, Quantity: 1, Unit: "pc", MinStockThreshold: floatPtr(5)},
		{ID: 4, OwnerID: 1, FoodID: 4, Quantity: 0, Unit: "pc"},
		{ID: 5, OwnerID: 1, FoodID: 5, Quantity: 5, Unit: "pc"},
	}}
	m := newTestMonitor(store, nil)

	analysis, err := m.GetExpiryAnalysis(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 5, analysis.TotalItems)
	assert.Equal(t, 1, analysis.ExpiringCount)
	assert.Equal(t, 1, analysis.ExpiredCount)
	assert.Equal(t, 1, analysis.LowStockCount)
	assert.Equal(t, 1, analysis.OutOfStockCount)
	assert.Len(t, analysis.Recommendations, 3)
}
