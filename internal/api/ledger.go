package api

import (
	"context"  // Context for store and Redis operations
	"errors"   // Sentinel error matching
	"io"       // Request body reading
	"net/http" // HTTP status codes
	"strconv"  // String conversion for cache keys
	"time"     // Cache TTL

	"ledger_service/internal/domain" // Domain models
	"ledger_service/internal/ledger" // Request pipeline
	"ledger_service/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// walletCacheTTL bounds how stale a cached wallet read may be
const walletCacheTTL = 60 * time.Second

// LedgerHandler is the single ledger endpoint: decode the envelope, run the
// dispatcher for the verified principal and answer with the uniform
// {data, error} envelope. Wallet reads go through the Redis cache; every
// mutation invalidates the caller's cached wallet.
func LedgerHandler(dispatcher *ledger.Dispatcher, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("userID") // Verified principal from the auth middleware
		// Check if the principal exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"data": nil, "error": "Missing credential"})
			return
		}
		principal := v.(uint)
		body, err := io.ReadAll(c.Request.Body) // Raw operation envelope
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"data": nil, "error": "Malformed request envelope"})
			return
		}
		env, err := ledger.Decode(body) // Decode and validate the envelope
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"data": nil, "error": "Malformed request envelope"})
			return
		}
		// Store work runs on a background context: if the caller disconnects
		// mid-request the operation completes and its result is discarded,
		// never left half-applied
		ctx := context.Background()
		cacheKey := "wallet:user:" + strconv.Itoa(int(principal)) // Cache key for the caller's wallet
		// Wallet reads are served from cache when possible
		if env.Operation == ledger.OpGetWallet && rdb != nil {
			var w domain.Wallet
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &w); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"data": w, "error": nil})
				return
			}
		}
		data, err := dispatcher.Dispatch(ctx, principal, env) // Run the pipeline
		if err != nil {
			status, msg := statusFor(err) // Map to exactly one HTTP status
			c.JSON(status, gin.H{"data": nil, "error": msg})
			return
		}
		if rdb != nil {
			switch env.Operation {
			case ledger.OpGetWallet:
				// Cache only a found wallet; absence stays uncached
				if w, ok := data.(*domain.Wallet); ok && w != nil {
					_ = utils.SetCache(ctx, rdb, cacheKey, w, walletCacheTTL)
				}
			case ledger.OpInsert, ledger.OpUpdate, ledger.OpDelete:
				_ = utils.DeleteCache(ctx, rdb, cacheKey) // Mutations invalidate the caller's wallet cache
			}
		}
		c.JSON(http.StatusOK, gin.H{"data": data, "error": nil})
	}
}

// statusFor maps a pipeline error to its HTTP status and user-visible
// message. Row-level store failures stay inside a 200 envelope; only
// infrastructure faults become 500, and their driver detail goes to the log
// rather than the caller.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrMissingIdentifier):
		return http.StatusBadRequest, "Missing record identifier"
	case errors.Is(err, ledger.ErrUnsupportedOperation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden, "Unauthorized"
	case errors.Is(err, ledger.ErrUnknownTable),
		errors.Is(err, ledger.ErrUnknownColumn),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInvalidPayload),
		errors.Is(err, ledger.ErrDuplicateRecord):
		return http.StatusOK, err.Error() // Dispatcher ran; the store's verdict rides in the envelope
	default:
		logrus.WithField("error", err.Error()).Error("Ledger operation failed") // Driver detail stays server-side
		return http.StatusInternalServerError, "Internal error"
	}
}
