package handler

import (
	"net/http"

	"hearthbutler/service"

	"github.com/gin-gonic/gin"
)

type ShoppingHandler interface {
	Suggestions(c *gin.Context)
	CreateList(c *gin.Context)
}

type shoppingHandler struct {
	shopping *service.ShoppingIntegration
}

// NewShoppingHandler creates and returns a new ShoppingHandler.
func NewShoppingHandler(shopping *service.ShoppingIntegration) ShoppingHandler {
	return &shoppingHandler{shopping: shopping}
}

func (h *shoppingHandler) Suggestions(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	suggestions, err := h.shopping.GenerateShoppingSuggestions(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type createListRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateList builds and persists a shopping list seeded from the current
// inventory's gaps.
func (h *shoppingHandler) CreateList(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.shopping.CreateInventoryBasedShoppingList(c.Request.Context(), owner, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": list})
}
