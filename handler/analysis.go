package handler

import (
	"net/http"
	"strconv"

	"hearthbutler/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler interface {
	Analysis(c *gin.Context)
	PurchaseSuggestions(c *gin.Context)
}

type analysisHandler struct {
	analyzer *service.InventoryAnalyzer
}

// NewAnalysisHandler creates and returns a new AnalysisHandler.
func NewAnalysisHandler(analyzer *service.InventoryAnalyzer) AnalysisHandler {
	return &analysisHandler{analyzer: analyzer}
}

// Analysis returns usage, waste and recommendation figures over the
// requested window. window_days defaults to the configured analysis window.
func (h *analysisHandler) Analysis(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	windowDays := 0
	if raw := c.Query("window_days"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window_days"})
			return
		}
		windowDays = d
	}

	analysis, err := h.analyzer.GetInventoryAnalysis(c.Request.Context(), owner, windowDays)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (h *analysisHandler) PurchaseSuggestions(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	suggestions, err := h.analyzer.GeneratePurchaseSuggestions(c.Request.Context(), owner)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
