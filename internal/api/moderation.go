package api

import (
	"net/http" // HTTP status codes

	"ledger_service/internal/moderation" // Injected content classifier

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for moderation checks
type ModerationRequest struct {
	Text     string `json:"text"`      // Text to classify
	MediaURL string `json:"media_url"` // Optional attached media
}

// ModerationHandler exposes the injected classifier for callers that want a
// verdict before composing content. The ledger core classifies story
// inserts on its own; this endpoint is advisory.
func ModerationHandler(classifier moderation.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ModerationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"data": nil, "error": "Invalid request"})
			return
		}
		verdict, err := classifier.Classify(c.Request.Context(), req.Text, req.MediaURL)
		if err != nil {
			// Classifier outage is an infrastructure fault
			c.JSON(http.StatusInternalServerError, gin.H{"data": nil, "error": "Moderation unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": verdict, "error": nil}) // Return the verdict
	}
}
