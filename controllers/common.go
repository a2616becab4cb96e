package controllers

import (
	"net/http"
	"strconv"

	"library-backend/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates a service error into an HTTP response.
// Rejections carry their own kind and status; anything else is a 500.
func respondServiceError(c *gin.Context, err error) {
	if rej, ok := services.AsRejection(err); ok {
		c.JSON(rej.HTTPStatus(), gin.H{"kind": rej.Kind, "message": rej.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

// paramID parses the numeric :id path parameter.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
