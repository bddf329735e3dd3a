package handler

import (
	"errors"
	"net/http"

	"hearthbutler/apperr"
	"hearthbutler/middleware"

	"github.com/gin-gonic/gin"
)

// memberID pulls the authenticated member out of the request context,
// writing a 401 when the middleware never ran.
func memberID(c *gin.Context) (uint, bool) {
	id, ok := middleware.MemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return id, ok
}

// respondErr translates domain errors into HTTP responses. Unknown errors
// become a 500 with the message hidden behind a generic body.
func respondErr(c *gin.Context, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		is *apperr.InsufficientStockError
		ce *apperr.ConflictError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &is):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      is.Error(),
			"shortfalls": is.Shortfalls,
		})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
