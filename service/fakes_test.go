package service

import (
	"context"
	"fmt"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"

	"github.com/shopspring/decimal"
)

// fakeItemStore is an in-memory ItemStore / monitorStore for service tests.
type fakeItemStore struct {
	items     []entity.InventoryItem
	createErr error
	saveCalls int

	statusWrites  map[uint]entity.ItemStatus
	failStatusFor map[uint]bool

	wastedIDs    []uint
	failWasteFor map[uint]bool

	deduct func(demands []entity.IngredientDemand, usageType entity.UsageType, label string) ([]entity.UsageRecord, error)
}

func (s *fakeItemStore) CreateItem(_ context.Context, item *entity.InventoryItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	item.ID = uint(len(s.items) + 1)
	s.items = append(s.items, *item)
	return nil
}

func (s *fakeItemStore) FindOwnedItem(_ context.Context, ownerID, id uint) (*entity.InventoryItem, error) {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].OwnerID == ownerID {
			cp := s.items[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("inventory item", id)
}

func (s *fakeItemStore) ListItems(_ context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	for _, it := range s.items {
		if it.OwnerID != ownerID {
			continue
		}
		if f.FoodID != 0 && it.FoodID != f.FoodID {
			continue
		}
		if f.Location != "" && it.StorageLocation != f.Location {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *fakeItemStore) SaveItem(_ context.Context, item *entity.InventoryItem) error {
	s.saveCalls++
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = *item
			return nil
		}
	}
	return apperr.NotFound("inventory item", item.ID)
}

func (s *fakeItemStore) DeleteItem(_ context.Context, id uint) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("inventory item", id)
}

func (s *fakeItemStore) DeductForUsage(_ context.Context, _ uint, demands []entity.IngredientDemand, usageType entity.UsageType, label string, _ time.Time, _ time.Duration) ([]entity.UsageRecord, error) {
	if s.deduct != nil {
		return s.deduct(demands, usageType, label)
	}
	return nil, nil
}

func (s *fakeItemStore) UpdateStatus(_ context.Context, id uint, status entity.ItemStatus) error {
	if s.failStatusFor[id] {
		return apperr.Persistence("update status", fmt.Errorf("injected failure for item %d", id))
	}
	if s.statusWrites == nil {
		s.statusWrites = make(map[uint]entity.ItemStatus)
	}
	s.statusWrites[id] = status
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
		}
	}
	return nil
}

func (s *fakeItemStore) WasteAndRemoveItem(_ context.Context, ownerID, itemID uint, reason entity.WasteReason, now time.Time) (*entity.WasteRecord, error) {
	if s.failWasteFor[itemID] {
		return nil, apperr.Persistence("waste item", fmt.Errorf("injected failure for item %d", itemID))
	}
	for i := range s.items {
		it := s.items[i]
		if it.ID != itemID || it.OwnerID != ownerID {
			continue
		}
		rec := &entity.WasteRecord{
			ID:              fmt.Sprintf("waste-%d", itemID),
			InventoryItemID: itemID,
			OwnerID:         ownerID,
			FoodID:          it.FoodID,
			FoodName:        it.Name,
			WastedQuantity:  it.Quantity,
			Reason:          reason,
			Value:           it.CurrentValue(),
			CreatedAt:       now,
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.wastedIDs = append(s.wastedIDs, itemID)
		return rec, nil
	}
	return nil, apperr.NotFound("inventory item", itemID)
}

// fakeLedger serves canned usage and waste history.
type fakeLedger struct {
	usage []entity.UsageRecord
	waste []entity.WasteRecord
}

func (l *fakeLedger) ListUsageSince(_ context.Context, ownerID uint, since time.Time) ([]entity.UsageRecord, error) {
	var out []entity.UsageRecord
	for _, u := range l.usage {
		if u.OwnerID == ownerID && !u.CreatedAt.Before(since) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (l *fakeLedger) ListWasteSince(_ context.Context, ownerID uint, since time.Time) ([]entity.WasteRecord, error) {
	var out []entity.WasteRecord
	for _, w := range l.waste {
		if w.OwnerID == ownerID && !w.CreatedAt.Before(since) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (l *fakeLedger) CountWastedItemsSince(_ context.Context, ownerID uint, since time.Time) (int, error) {
	seen := make(map[uint]struct{})
	for _, w := range l.waste {
		if w.OwnerID == ownerID && !w.CreatedAt.Before(since) {
			seen[w.InventoryItemID] = struct{}{}
		}
	}
	return len(seen), nil
}

// fakeFoods is an in-memory food catalog.
type fakeFoods struct {
	foods map[uint]entity.Food
}

func (f *fakeFoods) FindByIDs(_ context.Context, ids []uint) (map[uint]entity.Food, error) {
	out := make(map[uint]entity.Food)
	for _, id := range ids {
		if food, ok := f.foods[id]; ok {
			out[id] = food
		}
	}
	return out, nil
}

func (f *fakeFoods) FindOrCreateByName(_ context.Context, name string) (*entity.Food, error) {
	for _, food := range f.foods {
		if food.Name == name {
			cp := food
			return &cp, nil
		}
	}
	if f.foods == nil {
		f.foods = make(map[uint]entity.Food)
	}
	food := entity.Food{ID: uint(len(f.foods) + 1), Name: name}
	f.foods[food.ID] = food
	return &food, nil
}

// fakeRecipes is an in-memory recipe catalog.
type fakeRecipes struct {
	recipes []entity.Recipe
}

func (r *fakeRecipes) FindByID(_ context.Context, id uint) (*entity.Recipe, error) {
	for i := range r.recipes {
		if r.recipes[i].ID == id {
			cp := r.recipes[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("recipe", id)
}

func (r *fakeRecipes) ListAll(_ context.Context) ([]entity.Recipe, error) {
	return append([]entity.Recipe(nil), r.recipes...), nil
}

// fakeListStore records created shopping lists.
type fakeListStore struct {
	created []entity.ShoppingList
}

func (s *fakeListStore) CreateList(_ context.Context, list *entity.ShoppingList) error {
	list.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *list)
	return nil
}

// fakeNotifier captures payloads instead of delivering them.
type fakeNotifier struct {
	sent    []entity.NotificationPayload
	sendErr error
}

func (n *fakeNotifier) Send(_ context.Context, payload entity.NotificationPayload) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, payload)
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() entity.EngineConfig {
	cfg := entity.EngineConfig{}
	cfg.ApplyDefaults()
	return cfg
}

func inDays(n int) *time.Time {
	t := testNow.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func floatPtr(v float64) *float64 { return &v }

func price(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
