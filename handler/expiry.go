package handler

import (
	"net/http"

	"hearthbutler/entity"
	"hearthbutler/service"

	"github.com/gin-gonic/gin"
)

type ExpiryHandler interface {
	Refresh(c *gin.Context)
	Alerts(c *gin.Context)
	HandleExpired(c *gin.Context)
	Notifications(c *gin.Context)
	Analysis(c *gin.Context)
}

type expiryHandler struct {
	monitor *service.ExpiryMonitor
}

// NewExpiryHandler creates and returns a new ExpiryHandler.
func NewExpiryHandler(monitor *service.ExpiryMonitor) ExpiryHandler {
	return &expiryHandler{monitor: monitor}
}

// Refresh recomputes expiry statuses for the caller's whole inventory.
func (h *expiryHandler) Refresh(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	changed, err := h.monitor.UpdateExpiryStatuses(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *expiryHandler) Alerts(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	alerts, err := h.monitor.GetExpiryAlerts(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type handleExpiredRequest struct {
	ItemIDs []uint             `json:"item_ids"`
	Reason  entity.WasteReason `json:"reason"`
}

// HandleExpired wastes the given expired items, or every expired item
// when no ids are passed.
func (h *expiryHandler) HandleExpired(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	var req handleExpiredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.monitor.HandleExpiredItems(c.Request.Context(), owner, req.ItemIDs, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *expiryHandler) Notifications(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	payloads, err := h.monitor.GenerateExpiryNotifications(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": payloads})
}

func (h *expiryHandler) Analysis(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	analysis, err := h.monitor.GetExpiryAnalysis(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
