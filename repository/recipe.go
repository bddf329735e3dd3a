package repository

import (
	"context"
	"errors"

	"hearthbutler/apperr"
	"hearthbutler/entity"
	"hearthbutler/mapper"
	"hearthbutler/model"

	"gorm.io/gorm"
)

// RecipeRepository reads the recipe catalog. The engine never writes to it.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates and returns a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// FindByID fetches one recipe with its ingredient requirements.
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*entity.Recipe, error) {
	var m model.Recipe
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe", id)
		}
		return nil, wrapStoreErr("find recipe", err)
	}
	var ingredients []model.RecipeIngredient
	if err := r.DB.WithContext(ctx).Where("recipe_id = ?", id).Find(&ingredients).Error; err != nil {
		return nil, wrapStoreErr("find recipe ingredients", err)
	}
	return mapper.RecipeModelToEntity(&m, ingredients), nil
}

// ListAll returns every recipe with its ingredients.
func (r *RecipeRepository) ListAll(ctx context.Context) ([]entity.Recipe, error) {
	var rows []model.Recipe
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, wrapStoreErr("list recipes", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	var ingredientRows []model.RecipeIngredient
	if err := r.DB.WithContext(ctx).Where("recipe_id IN ?", ids).Find(&ingredientRows).Error; err != nil {
		return nil, wrapStoreErr("list recipe ingredients", err)
	}
	byRecipe := make(map[uint][]model.RecipeIngredient)
	for _, ing := range ingredientRows {
		byRecipe[ing.RecipeID] = append(byRecipe[ing.RecipeID], ing)
	}
	recipes := make([]entity.Recipe, 0, len(rows))
	for i := range rows {
		recipes = append(recipes, *mapper.RecipeModelToEntity(&rows[i], byRecipe[rows[i].ID]))
	}
	return recipes, nil
}
