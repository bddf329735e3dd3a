package handler

import (
	"net/http"
	"strconv"
	"time"

	"hearthbutler/entity"
	"hearthbutler/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Consume(c *gin.Context)
	Stats(c *gin.Context)
}

type inventoryHandler struct {
	tracker *service.InventoryTracker
}

// NewInventoryHandler creates and returns a new InventoryHandler.
func NewInventoryHandler(tracker *service.InventoryTracker) InventoryHandler {
	return &inventoryHandler{tracker: tracker}
}

// Create handles the creation of a new inventory item.
func (h *inventoryHandler) Create(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	var input entity.InventoryItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.OwnerID = owner

	item, err := h.tracker.CreateInventoryItem(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// List returns the owner's items, optionally filtered by query params.
func (h *inventoryHandler) List(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	filter := entity.ItemFilter{
		Status:   entity.ItemStatus(c.Query("status")),
		Location: entity.StorageLocation(c.Query("location")),
		Category: c.Query("category"),
	}
	if raw := c.Query("food_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food_id"})
			return
		}
		filter.FoodID = uint(id)
	}

	items, err := h.tracker.GetInventoryItems(c.Request.Context(), owner, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *inventoryHandler) Get(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.tracker.GetInventoryItem(c.Request.Context(), owner, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// updateItemRequest mirrors service.ItemPatch on the wire. Clear flags let
// a client null out expiry or threshold, which a plain omitted field
// cannot express.
type updateItemRequest struct {
	Name              *string                 `json:"name"`
	Quantity          *float64                `json:"quantity"`
	Unit              *string                 `json:"unit"`
	ExpiryDate        *time.Time              `json:"expiry_date"`
	ClearExpiry       bool                    `json:"clear_expiry"`
	StorageLocation   *entity.StorageLocation `json:"storage_location"`
	MinStockThreshold *float64                `json:"min_stock_threshold"`
	ClearThreshold    bool                    `json:"clear_threshold"`
	PurchasePrice     *decimal.Decimal        `json:"purchase_price"`
	PurchaseSource    *string                 `json:"purchase_source"`
	Brand             *string                 `json:"brand"`
	Packaging         *string                 `json:"packaging"`
}

func (h *inventoryHandler) Update(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.ItemPatch{
		Name:              req.Name,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		ExpiryDate:        req.ExpiryDate,
		ClearExpiry:       req.ClearExpiry,
		StorageLocation:   req.StorageLocation,
		MinStockThreshold: req.MinStockThreshold,
		ClearThreshold:    req.ClearThreshold,
		PurchasePrice:     req.PurchasePrice,
		PurchaseSource:    req.PurchaseSource,
		Brand:             req.Brand,
		Packaging:         req.Packaging,
	}

	item, err := h.tracker.UpdateInventoryItem(c.Request.Context(), owner, id, patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *inventoryHandler) Delete(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tracker.DeleteInventoryItem(c.Request.Context(), owner, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

type consumeRequest struct {
	Demands   []entity.IngredientDemand `json:"demands" binding:"required"`
	UsageType entity.UsageType          `json:"usage_type"`
	Label     string                    `json:"label"`
}

// Consume deducts stock across items for the requested ingredient demands.
func (h *inventoryHandler) Consume(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UsageType == "" {
		req.UsageType = entity.UsageManual
	}

	records, err := h.tracker.Consume(c.Request.Context(), owner, req.Demands, req.UsageType, req.Label)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage_records": records})
}

func (h *inventoryHandler) Stats(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	stats, err := h.tracker.GetInventoryStats(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
