package service

import (
	"context"
	"sort"
	"time"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/metrics"

	"github.com/shopspring/decimal"
)

// RecipeCatalog resolves recipes and their ingredient requirements.
type RecipeCatalog interface {
	FindByID(ctx context.Context, id uint) (*entity.Recipe, error)
	ListAll(ctx context.Context) ([]entity.Recipe, error)
}

// inventoryConsumer is the tracker slice the recipe flow needs: reading
// live stock and running the atomic deduction.
type inventoryConsumer interface {
	GetInventoryItems(ctx context.Context, ownerID uint, f entity.ItemFilter) ([]entity.InventoryItem, error)
	Consume(ctx context.Context, ownerID uint, demands []entity.IngredientDemand, usageType entity.UsageType, label string) ([]entity.UsageRecord, error)
}

// RecipeIntegration matches recipes against current stock and consumes
// inventory when one is cooked.
type RecipeIntegration struct {
	recipes RecipeCatalog
	foods   FoodCatalog
	tracker inventoryConsumer
	cfg     entity.EngineConfig
	now     func() time.Time
}

// NewRecipeIntegration wires the recipe flow onto the tracker.
func NewRecipeIntegration(recipes RecipeCatalog, foods FoodCatalog, tracker inventoryConsumer, cfg entity.EngineConfig) *RecipeIntegration {
	return &RecipeIntegration{
		recipes: recipes,
		foods:   foods,
		tracker: tracker,
		cfg:     cfg,
		now:     time.Now,
	}
}

// availableByFood sums the owner's non-expired stock per food. Statuses
// are re-derived; the cached column is never trusted here.
func (r *RecipeIntegration) availableByFood(ctx context.Context, ownerID uint) (map[uint]float64, error) {
	items, err := r.tracker.GetInventoryItems(ctx, ownerID, entity.ItemFilter{})
	if err != nil {
		return nil, err
	}
	now := r.now()
	avail := make(map[uint]float64)
	for i := range items {
		it := &items[i]
		if it.Quantity <= 0 {
			continue
		}
		st := entity.ComputeStatus(it.Quantity, it.ExpiryDate, it.MinStockThreshold, now, r.cfg.ExpiringWindow())
		if st == entity.StatusExpired {
			continue
		}
		avail[it.FoodID] += it.Quantity
	}
	return avail, nil
}

// scaledDemands multiplies a recipe's ingredient requirements up or down
// to the requested servings.
func scaledDemands(recipe *entity.Recipe, servings int) []entity.IngredientDemand {
	scale := 1.0
	if servings > 0 {
		base := recipe.Servings
		if base <= 0 {
			base = 1
		}
		scale = float64(servings) / float64(base)
	}
	demands := make([]entity.IngredientDemand, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		demands = append(demands, entity.IngredientDemand{
			FoodID: ing.FoodID,
			Amount: ing.Quantity * scale,
		})
	}
	return demands
}

// RecommendRecipes annotates every catalog recipe with cookability against
// the owner's current non-expired stock. With requireAllIngredients set,
// partial matches are excluded; otherwise they are returned ranked lower.
func (r *RecipeIntegration) RecommendRecipes(ctx context.Context, ownerID uint, requireAllIngredients bool) ([]entity.RecipeMatch, error) {
	recipes, err := r.recipes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	avail, err := r.availableByFood(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	foodIDs := make(map[uint]struct{})
	for _, rec := range recipes {
		for _, ing := range rec.Ingredients {
			foodIDs[ing.FoodID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(foodIDs))
	for id := range foodIDs {
		ids = append(ids, id)
	}
	foods, err := r.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var matches []entity.RecipeMatch
	for _, rec := range recipes {
		match := entity.RecipeMatch{Recipe: rec, CanCook: true}
		for _, ing := range rec.Ingredients {
			have := avail[ing.FoodID]
			if ing.Quantity > have+1e-9 {
				match.CanCook = false
				name := ""
				if f, ok := foods[ing.FoodID]; ok {
					name = f.Name
				}
				match.MissingIngredients = append(match.MissingIngredients, entity.MissingIngredient{
					FoodID:    ing.FoodID,
					FoodName:  name,
					Required:  ing.Quantity,
					Available: have,
					Unit:      ing.Unit,
				})
			}
		}
		if requireAllIngredients && !match.CanCook {
			continue
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CanCook != matches[j].CanCook {
			return matches[i].CanCook
		}
		mi, mj := len(matches[i].MissingIngredients), len(matches[j].MissingIngredients)
		if mi != mj {
			return mi < mj
		}
		return matches[i].Recipe.Name < matches[j].Recipe.Name
	})
	return matches, nil
}

// CookRecipe scales the recipe to the requested servings and consumes the
// ingredients atomically: any shortfall fails with InsufficientStockError
// and no item is touched.
func (r *RecipeIntegration) CookRecipe(ctx context.Context, ownerID, recipeID uint, servings int) ([]entity.ConsumedIngredient, error) {
	if servings <= 0 {
		return nil, apperr.Validation("servings", "must be positive")
	}
	recipe, err := r.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if len(recipe.Ingredients) == 0 {
		return nil, apperr.Validation("recipe", "has no ingredients")
	}

	demands := scaledDemands(recipe, servings)
	records, err := r.tracker.Consume(ctx, ownerID, demands, entity.UsageCooking, recipe.Name)
	if err != nil {
		return nil, err
	}
	metrics.CookEvents.Inc()

	// Collapse per-item usage records back to one line per ingredient.
	consumedByFood := make(map[uint]float64)
	for _, rec := range records {
		consumedByFood[rec.FoodID] += rec.UsedQuantity
	}
	foodIDs := make([]uint, 0, len(demands))
	for _, d := range demands {
		foodIDs = append(foodIDs, d.FoodID)
	}
	foods, err := r.foods.FindByIDs(ctx, foodIDs)
	if err != nil {
		return nil, err
	}
	consumed := make([]entity.ConsumedIngredient, 0, len(demands))
	for _, ing := range recipe.Ingredients {
		name := ""
		if f, ok := foods[ing.FoodID]; ok {
			name = f.Name
		}
		consumed = append(consumed, entity.ConsumedIngredient{
			FoodID:   ing.FoodID,
			FoodName: name,
			Quantity: consumedByFood[ing.FoodID],
			Unit:     ing.Unit,
		})
	}
	return consumed, nil
}

// GenerateRecipeShoppingList computes the aggregate shortfall of a set of
// recipes versus current inventory, plus the subset already fully
// cookable on its own.
func (r *RecipeIntegration) GenerateRecipeShoppingList(ctx context.Context, ownerID uint, recipeIDs []uint, servings int) (*entity.RecipeShoppingList, error) {
	avail, err := r.availableByFood(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	required := make(map[uint]float64)
	units := make(map[uint]string)
	out := &entity.RecipeShoppingList{}
	for _, id := range recipeIDs {
		recipe, err := r.recipes.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		demands := scaledDemands(recipe, servings)
		cookable := true
		for i, d := range demands {
			required[d.FoodID] += d.Amount
			units[d.FoodID] = recipe.Ingredients[i].Unit
			if d.Amount > avail[d.FoodID]+1e-9 {
				cookable = false
			}
		}
		if cookable {
			out.CanCookRecipes = append(out.CanCookRecipes, id)
		}
	}

	foodIDs := make([]uint, 0, len(required))
	for id := range required {
		foodIDs = append(foodIDs, id)
	}
	sort.Slice(foodIDs, func(i, j int) bool { return foodIDs[i] < foodIDs[j] })
	foods, err := r.foods.FindByIDs(ctx, foodIDs)
	if err != nil {
		return nil, err
	}

	for _, foodID := range foodIDs {
		shortfall := required[foodID] - avail[foodID]
		if shortfall <= 1e-9 {
			continue
		}
		priority := entity.PriorityMedium
		if avail[foodID] <= 0 {
			priority = entity.PriorityHigh
		}
		name := ""
		if f, ok := foods[foodID]; ok {
			name = f.Name
		}
		out.Items = append(out.Items, entity.ShoppingSuggestion{
			FoodID:            foodID,
			FoodName:          name,
			Unit:              units[foodID],
			SuggestedQuantity: shortfall,
			Priority:          priority,
			EstimatedPrice:    decimal.Zero,
		})
	}
	return out, nil
}
