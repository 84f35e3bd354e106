package middleware

import (
	"net/http" // HTTP status codes and methods

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORS stamps permissive cross-origin headers on every response and answers
// preflight requests unconditionally, before authentication runs.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")                                                // Any origin
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type") // Allowed request headers
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")                              // Allowed methods
		// Preflight requests are answered here, never dispatched
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
