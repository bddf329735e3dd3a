package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hearthbutler/cache"
	"hearthbutler/entity"

	"github.com/shopspring/decimal"
)

// analysisLedger is the slice of the ledgers the analyzer reads.
type analysisLedger interface {
	ListUsageSince(ctx context.Context, ownerID uint, since time.Time) ([]entity.UsageRecord, error)
	ListWasteSince(ctx context.Context, ownerID uint, since time.Time) ([]entity.WasteRecord, error)
}

// FoodCatalog resolves food ids to catalog entries.
type FoodCatalog interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]entity.Food, error)
}

// itemLister is the read slice of the item store used for live snapshots.
type itemLister interface {
	ListItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error)
}

// InventoryAnalyzer aggregates usage and waste history into reports and
// purchase suggestions.
type InventoryAnalyzer struct {
	store   itemLister
	ledger  analysisLedger
	foods   FoodCatalog
	reports *cache.AnalysisCache
	cfg     entity.EngineConfig
	now     func() time.Time
}

// NewInventoryAnalyzer creates an analyzer. reports may be nil when no
// cache is configured.
func NewInventoryAnalyzer(store itemLister, ledger analysisLedger, foods FoodCatalog, reports *cache.AnalysisCache, cfg entity.EngineConfig) *InventoryAnalyzer {
	return &InventoryAnalyzer{
		store:   store,
		ledger:  ledger,
		foods:   foods,
		reports: reports,
		cfg:     cfg,
		now:     time.Now,
	}
}

// wasteRateThreshold is the category waste rate above which the analyzer
// recommends smaller purchase batches.
const wasteRateThreshold = 0.2

// repeatedWasteThreshold is how many waste events of one food in the
// window trigger a reduced-restock recommendation.
const repeatedWasteThreshold = 3

func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

// GetInventoryAnalysis builds the full report over the given window. A
// non-positive windowDays falls back to the configured analysis window.
func (a *InventoryAnalyzer) GetInventoryAnalysis(ctx context.Context, ownerID uint, windowDays int) (*entity.InventoryAnalysis, error) {
	if windowDays <= 0 {
		windowDays = a.cfg.AnalysisWindowDays
	}
	if cached := a.reports.Get(ctx, ownerID, windowDays); cached != nil {
		return cached, nil
	}

	now := a.now()
	since := now.AddDate(0, 0, -windowDays)

	items, err := a.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	usage, err := a.ledger.ListUsageSince(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}
	waste, err := a.ledger.ListWasteSince(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}

	foodIDs := make(map[uint]struct{})
	for _, it := range items {
		foodIDs[it.FoodID] = struct{}{}
	}
	for _, u := range usage {
		foodIDs[u.FoodID] = struct{}{}
	}
	for _, w := range waste {
		foodIDs[w.FoodID] = struct{}{}
	}
	ids := make([]uint, 0, len(foodIDs))
	for id := range foodIDs {
		ids = append(ids, id)
	}
	foods, err := a.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	categoryOf := func(foodID uint) string {
		if f, ok := foods[foodID]; ok && f.Category != "" {
			return f.Category
		}
		return "uncategorized"
	}
	nameOf := func(foodID uint) string {
		if f, ok := foods[foodID]; ok {
			return f.Name
		}
		return fmt.Sprintf("food #%d", foodID)
	}

	report := &entity.InventoryAnalysis{
		OwnerID:     ownerID,
		WindowDays:  windowDays,
		GeneratedAt: now,
	}

	// Summary.
	usedItems := make(map[uint]struct{})
	wastedItems := make(map[uint]struct{})
	usedQty, wastedQty := 0.0, 0.0
	totalValue := decimal.Zero
	for i := range items {
		totalValue = totalValue.Add(items[i].CurrentValue())
	}
	for _, u := range usage {
		usedItems[u.InventoryItemID] = struct{}{}
		usedQty += u.UsedQuantity
	}
	for _, w := range waste {
		wastedItems[w.InventoryItemID] = struct{}{}
		wastedQty += w.WastedQuantity
	}
	report.Summary = entity.AnalysisSummary{
		TotalItems:  len(items),
		TotalValue:  totalValue,
		UsedItems:   len(usedItems),
		WastedItems: len(wastedItems),
		UsedQty:     usedQty,
		WastedQty:   wastedQty,
		WasteRate:   ratio(wastedQty, usedQty+wastedQty),
		UsageRate:   ratio(usedQty, usedQty+wastedQty),
	}

	// Per-category rollup.
	type catAgg struct {
		itemCount  int
		totalValue decimal.Decimal
		usedQty    float64
		wastedQty  float64
		wasteValue decimal.Decimal
		wasteCount int
	}
	cats := make(map[string]*catAgg)
	catOf := func(foodID uint) *catAgg {
		c := categoryOf(foodID)
		agg, ok := cats[c]
		if !ok {
			agg = &catAgg{totalValue: decimal.Zero, wasteValue: decimal.Zero}
			cats[c] = agg
		}
		return agg
	}
	for i := range items {
		agg := catOf(items[i].FoodID)
		agg.itemCount++
		agg.totalValue = agg.totalValue.Add(items[i].CurrentValue())
	}
	for _, u := range usage {
		catOf(u.FoodID).usedQty += u.UsedQuantity
	}
	for _, w := range waste {
		agg := catOf(w.FoodID)
		agg.wastedQty += w.WastedQuantity
		agg.wasteValue = agg.wasteValue.Add(w.Value)
		agg.wasteCount++
	}
	for name, agg := range cats {
		report.CategoryAnalysis = append(report.CategoryAnalysis, entity.CategoryAnalysis{
			Category:       name,
			ItemCount:      agg.itemCount,
			TotalValue:     agg.totalValue,
			UsedQuantity:   agg.usedQty,
			WastedQuantity: agg.wastedQty,
			WasteRate:      ratio(agg.wastedQty, agg.usedQty+agg.wastedQty),
			Efficiency:     ratio(agg.usedQty, agg.usedQty+agg.wastedQty),
		})
	}
	sort.Slice(report.CategoryAnalysis, func(i, j int) bool {
		return report.CategoryAnalysis[i].Category < report.CategoryAnalysis[j].Category
	})

	// Per-food usage patterns.
	type foodAgg struct {
		usageCount int
		totalUsage float64
		wasteCount int
		totalWaste float64
		wasteValue decimal.Decimal
	}
	perFood := make(map[uint]*foodAgg)
	foodAggOf := func(foodID uint) *foodAgg {
		agg, ok := perFood[foodID]
		if !ok {
			agg = &foodAgg{wasteValue: decimal.Zero}
			perFood[foodID] = agg
		}
		return agg
	}
	for _, u := range usage {
		agg := foodAggOf(u.FoodID)
		agg.usageCount++
		agg.totalUsage += u.UsedQuantity
	}
	for _, w := range waste {
		agg := foodAggOf(w.FoodID)
		agg.wasteCount++
		agg.totalWaste += w.WastedQuantity
		agg.wasteValue = agg.wasteValue.Add(w.Value)
	}
	for foodID, agg := range perFood {
		avg := 0.0
		if agg.usageCount > 0 {
			avg = agg.totalUsage / float64(agg.usageCount)
		}
		report.UsagePatterns = append(report.UsagePatterns, entity.UsagePattern{
			FoodID:         foodID,
			FoodName:       nameOf(foodID),
			UsageFrequency: agg.usageCount,
			AverageUsage:   avg,
			TotalUsage:     agg.totalUsage,
			WasteFrequency: agg.wasteCount,
			Efficiency:     ratio(agg.totalUsage, agg.totalUsage+agg.totalWaste),
		})
	}
	sort.Slice(report.UsagePatterns, func(i, j int) bool {
		pi, pj := report.UsagePatterns[i], report.UsagePatterns[j]
		if pi.TotalUsage != pj.TotalUsage {
			return pi.TotalUsage > pj.TotalUsage
		}
		return pi.FoodID < pj.FoodID
	})

	// Waste breakdowns.
	report.WasteAnalysis = a.buildWasteAnalysis(waste, categoryOf, nameOf)

	// Rule-based recommendations.
	for _, ca := range report.CategoryAnalysis {
		if ca.WasteRate > wasteRateThreshold && ca.WastedQuantity > 0 {
			agg := cats[ca.Category]
			report.Recommendations = append(report.Recommendations, entity.Recommendation{
				Kind: "smaller_batches",
				Message: fmt.Sprintf("%.0f%% of your %s purchases went to waste; buy smaller batches",
					ca.WasteRate*100, ca.Category),
				EstimatedSavings: agg.wasteValue,
			})
		}
	}
	for _, p := range report.UsagePatterns {
		if p.WasteFrequency >= repeatedWasteThreshold {
			agg := perFood[p.FoodID]
			report.Recommendations = append(report.Recommendations, entity.Recommendation{
				Kind: "reduce_restock",
				Message: fmt.Sprintf("%s was wasted %d times in %d days; restock less of it",
					p.FoodName, p.WasteFrequency, windowDays),
				EstimatedSavings: agg.wasteValue,
			})
		}
	}

	a.reports.Set(ctx, report)
	return report, nil
}

func (a *InventoryAnalyzer) buildWasteAnalysis(waste []entity.WasteRecord, categoryOf func(uint) string, nameOf func(uint) string) entity.WasteAnalysis {
	wa := entity.WasteAnalysis{TotalWasteValue: decimal.Zero}
	type slice struct {
		count int
		value decimal.Decimal
	}
	byReason := make(map[string]*slice)
	byCategory := make(map[string]*slice)
	type rank struct {
		qty   float64
		value decimal.Decimal
	}
	byFood := make(map[uint]*rank)

	add := func(m map[string]*slice, key string, value decimal.Decimal) {
		s, ok := m[key]
		if !ok {
			s = &slice{value: decimal.Zero}
			m[key] = s
		}
		s.count++
		s.value = s.value.Add(value)
	}
	for _, w := range waste {
		wa.TotalWasteValue = wa.TotalWasteValue.Add(w.Value)
		add(byReason, string(w.Reason), w.Value)
		add(byCategory, categoryOf(w.FoodID), w.Value)
		r, ok := byFood[w.FoodID]
		if !ok {
			r = &rank{value: decimal.Zero}
			byFood[w.FoodID] = r
		}
		r.qty += w.WastedQuantity
		r.value = r.value.Add(w.Value)
	}

	total, _ := wa.TotalWasteValue.Float64()
	toBreakdown := func(m map[string]*slice) []entity.WasteBreakdown {
		out := make([]entity.WasteBreakdown, 0, len(m))
		for key, s := range m {
			v, _ := s.value.Float64()
			out = append(out, entity.WasteBreakdown{
				Key:        key,
				Count:      s.count,
				Value:      s.value,
				Percentage: ratio(v, total) * 100,
			})
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Value.Equal(out[j].Value) {
				return out[i].Value.GreaterThan(out[j].Value)
			}
			return out[i].Key < out[j].Key
		})
		return out
	}
	wa.ByReason = toBreakdown(byReason)
	wa.ByCategory = toBreakdown(byCategory)

	for foodID, r := range byFood {
		wa.TopWastedItems = append(wa.TopWastedItems, entity.WastedItemRank{
			FoodID:      foodID,
			FoodName:    nameOf(foodID),
			WastedQty:   r.qty,
			WastedValue: r.value,
		})
	}
	sort.Slice(wa.TopWastedItems, func(i, j int) bool {
		ri, rj := wa.TopWastedItems[i], wa.TopWastedItems[j]
		if !ri.WastedValue.Equal(rj.WastedValue) {
			return ri.WastedValue.GreaterThan(rj.WastedValue)
		}
		return ri.FoodID < rj.FoodID
	})
	if len(wa.TopWastedItems) > 5 {
		wa.TopWastedItems = wa.TopWastedItems[:5]
	}
	return wa
}

// GeneratePurchaseSuggestions proposes restock quantities for foods that
// are currently low or out of stock, sized to cover the configured number
// of days at the historical average consumption rate.
func (a *InventoryAnalyzer) GeneratePurchaseSuggestions(ctx context.Context, ownerID uint) ([]entity.PurchaseSuggestion, error) {
	now := a.now()
	items, err := a.store.ListItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	usage, err := a.ledger.ListUsageSince(ctx, ownerID, now.Add(-a.cfg.AnalysisWindow()))
	if err != nil {
		return nil, err
	}

	// Daily consumption rate per food over the window.
	usedPerFood := make(map[uint]float64)
	for _, u := range usage {
		usedPerFood[u.FoodID] += u.UsedQuantity
	}

	// Collapse items to one row per food, keeping the most severe status.
	type foodState struct {
		name      string
		unit      string
		quantity  float64
		purchased float64
		status    entity.ItemStatus
		lowFact   bool
		unitPrice decimal.Decimal
	}
	states := make(map[uint]*foodState)
	for i := range items {
		it := &items[i]
		st := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, a.cfg.ExpiringWindow())
		s, ok := states[it.FoodID]
		if !ok {
			s = &foodState{name: it.Name, unit: it.Unit, status: st, unitPrice: it.UnitPrice()}
			states[it.FoodID] = s
		}
		s.quantity += it.Quantity
		s.purchased += it.PurchaseQuantity
		if entity.StatusSeverity(st) > entity.StatusSeverity(s.status) {
			s.status = st
		}
		// The low-stock fact is tracked independently so a fresh or
		// expiring item below threshold still gets a suggestion.
		if entity.IsLowStock(it.Quantity, it.MinStockThreshold) {
			s.lowFact = true
		}
		if s.unitPrice.IsZero() {
			s.unitPrice = it.UnitPrice()
		}
	}

	var suggestions []entity.PurchaseSuggestion
	foodIDs := make([]uint, 0, len(states))
	for id := range states {
		foodIDs = append(foodIDs, id)
	}
	sort.Slice(foodIDs, func(i, j int) bool { return foodIDs[i] < foodIDs[j] })

	for _, foodID := range foodIDs {
		s := states[foodID]
		if s.status != entity.StatusLowStock && s.status != entity.StatusOutOfStock && !s.lowFact {
			continue
		}
		dailyRate := usedPerFood[foodID] / float64(a.cfg.AnalysisWindowDays)
		qty := dailyRate * float64(a.cfg.RestockCoverDays)
		reason := fmt.Sprintf("covers %d days at your average use", a.cfg.RestockCoverDays)
		if qty <= 0 {
			// No usage history: replenish what was originally bought.
			qty = s.purchased
			reason = "no recent usage history; matches your last purchase"
		}
		if qty <= 0 {
			continue
		}
		priority := entity.PriorityLow
		switch s.status {
		case entity.StatusOutOfStock:
			priority = entity.PriorityHigh
		case entity.StatusLowStock:
			priority = entity.PriorityMedium
		}
		suggestions = append(suggestions, entity.PurchaseSuggestion{
			FoodID:            foodID,
			FoodName:          s.name,
			Unit:              s.unit,
			SuggestedQuantity: qty,
			Priority:          priority,
			EstimatedPrice:    s.unitPrice.Mul(decimal.NewFromFloat(qty)),
			Reason:            reason,
		})
	}
	return suggestions, nil
}
