package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/reconcile"
	"github.com/enzy-delivery/carrier-sync/internal/signature"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	stopWebhookPath = "/api/webhooks/stopsuite-complete"

	headerAPIKey    = "X-API-Key"
	headerSignature = "X-Signature"
	headerTimestamp = "X-Timestamp"
	headerNonce     = "X-Nonce"

	timestampTolerance = 5 * time.Minute
	nonceTTL           = 5 * time.Minute
)

// handleStopCompleted ingests StopSuite completion webhooks. Authentication
// failures are the only 4xx outcomes; once the sender is verified every
// payload is acknowledged with 200 so StopSuite never retries events we have
// already judged.
func (server *Server) handleStopCompleted(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if !server.authenticateStopWebhook(ctx, body) {
		return
	}

	var event reconcile.Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn().Err(err).Msg("unparseable StopSuite webhook payload")
		ctx.JSON(http.StatusOK, gin.H{"status": "ignored", "message": "unparseable payload"})
		return
	}

	outcome, err := server.reconciler.HandleCompletion(ctx, &event)
	if err != nil {
		log.Error().Err(err).Msg("completion reconciliation failed")
		ctx.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

func (server *Server) authenticateStopWebhook(ctx *gin.Context, body []byte) bool {
	apiKey := ctx.GetHeader(headerAPIKey)
	sig := ctx.GetHeader(headerSignature)
	timestamp := ctx.GetHeader(headerTimestamp)
	nonce := ctx.GetHeader(headerNonce)

	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(server.config.StopSuiteAPIKey)) != 1 {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrInvalidWebhookSignature))
		return false
	}

	if !freshTimestamp(timestamp) {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrInvalidWebhookSignature))
		return false
	}

	ok := signature.VerifyClientSignature(sig, server.config.StopSuiteSecretKey,
		http.MethodPost, stopWebhookPath, timestamp, nonce, string(body))
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrInvalidWebhookSignature))
		return false
	}

	if server.replayedNonce(ctx, nonce) {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrReplayedWebhook))
		return false
	}

	return true
}

func freshTimestamp(timestamp string) bool {
	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	age := time.Since(time.Unix(unix, 0))
	return age > -timestampTolerance && age < timestampTolerance
}

// replayedNonce records the nonce with SETNX and reports whether it was
// already seen. A Redis outage fails open; the signature has already been
// verified at this point.
func (server *Server) replayedNonce(ctx *gin.Context, nonce string) bool {
	if server.redisClient == nil || nonce == "" {
		return false
	}

	fresh, err := server.redisClient.SetNX(ctx, "nonce:"+nonce, 1, nonceTTL).Result()
	if err != nil {
		log.Warn().Err(err).Msg("nonce replay check unavailable")
		return false
	}
	return !fresh
}
