package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ledger_service/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// BearerAuth is the identity verifier: it extracts the bearer credential
// from the Authorization header and resolves it to a principal via the
// identity oracle. A missing header and a rejected credential are reported
// separately but both end the request with 401.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with the missing-credential failure
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"data": nil, "error": "Missing credential"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Ask the oracle
		if err != nil {
			// Any oracle error or negative result normalizes to invalid-credential
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"data": nil, "error": "Invalid credential"})
			return
		}
		c.Set("userID", claims.UserID) // Store the verified principal in context
		c.Next()                       // Proceed to the next handler
	}
}
