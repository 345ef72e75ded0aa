package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Upserted writes the reply for an insert-or-update: 201 when the record was
// created, 200 when an existing one was updated.
func Upserted(c *gin.Context, created bool, payload interface{}) {
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	JSON(c, status, payload)
}
