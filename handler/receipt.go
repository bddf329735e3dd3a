package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"hearthbutler/entity"
	"hearthbutler/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceiptHandler interface {
	Import(c *gin.Context)
}

type receiptHandler struct {
	ingestor *service.ReceiptIngestor
}

// NewReceiptHandler creates and returns a new ReceiptHandler.
func NewReceiptHandler(ingestor *service.ReceiptIngestor) ReceiptHandler {
	return &receiptHandler{ingestor: ingestor}
}

// Import accepts a multipart "receipt" PDF and stocks the inventory from
// its recognised lines. The optional "location" form field sets where the
// purchases are stored.
func (h *receiptHandler) Import(c *gin.Context) {
	owner, ok := memberID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receipt file is required"})
		return
	}

	location := entity.StorageLocation(c.PostForm("location"))
	if location == "" {
		location = entity.LocationPantry
	}

	tmp := filepath.Join(os.TempDir(), uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	defer os.Remove(tmp)

	report, err := h.ingestor.ImportReceipt(c.Request.Context(), owner, tmp, location)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}
