package handler

import (
	"net/http"
	"strconv"

	"hearthbutler/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler interface {
	Recommend(c *gin.Context)
	Cook(c *gin.Context)
	ShoppingList(c *gin.Context)
}

type recipeHandler struct {
	recipes *service.RecipeIntegration
}

// NewRecipeHandler creates and returns a new RecipeHandler.
func NewRecipeHandler(recipes *service.RecipeIntegration) RecipeHandler {
	return &recipeHandler{recipes: recipes}
}

// Recommend ranks recipes by how much of them the current inventory
// covers. ?cookable=true hides recipes with missing ingredients.
func (h *recipeHandler) Recommend(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}
	cookableOnly := c.Query("cookable") == "true"

	matches, err := h.recipes.RecommendRecipes(c.Request.Context(), owner, cookableOnly)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": matches})
}

type cookRequest struct {
	Servings int `json:"servings" binding:"required"`
}

// Cook deducts a recipe's scaled ingredients from the inventory.
func (h *recipeHandler) Cook(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}
	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req cookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consumed, err := h.recipes.CookRecipe(c.Request.Context(), owner, uint(recipeID), req.Servings)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumed": consumed})
}

type recipeListRequest struct {
	RecipeIDs []uint `json:"recipe_ids" binding:"required"`
	Servings  int    `json:"servings"`
}

// ShoppingList aggregates what is missing to cook the given recipes.
func (h *recipeHandler) ShoppingList(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	var req recipeListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.recipes.GenerateRecipeShoppingList(c.Request.Context(), owner, req.RecipeIDs, req.Servings)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shopping_list": list})
}
