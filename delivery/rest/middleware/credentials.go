package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/delivery/rest/dto"
)

// Credential headers of the record API
const (
	HeaderProjectID = "X-Project-ID"
	HeaderPublicKey = "X-Public-Key"
)

// Credentials rejects requests whose X-Public-Key does not match key, and,
// when projectID is set, whose X-Project-ID differs. An empty key disables
// the check.
func Credentials(projectID, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		got := c.GetHeader(HeaderPublicKey)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 ||
			(projectID != "" && c.GetHeader(HeaderProjectID) != projectID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid project credentials",
			})
			return
		}
		c.Next()
	}
}
