package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleError writes the AppError as the JSON response body.
func HandleError(c *gin.Context, err *AppError) {
	code := err.HTTPCode
	if code == 0 {
		code = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err})
}
