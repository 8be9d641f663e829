package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/enzy-delivery/carrier-sync/internal/signature"
	"github.com/enzy-delivery/carrier-sync/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const shopifyHmacHeader = "X-Shopify-Hmac-Sha256"

// handleOrderCreated ingests Shopify order-creation webhooks. Once the
// signature checks out the response is 200 even when the downstream sync
// fails; Shopify retries are for delivery problems, not for ours.
func (server *Server) handleOrderCreated(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if !signature.VerifyShopWebhook(server.config.ShopifyWebhookSecret, body, ctx.GetHeader(shopifyHmacHeader)) {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrInvalidWebhookSignature))
		return
	}

	var order shopify.Order
	if err := json.Unmarshal(body, &order); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if order.ID == 0 {
		ctx.JSON(http.StatusBadRequest, errorResponse(errors.New("order id is missing")))
		return
	}

	ready, err := server.syncService.WaitForRouting(ctx, order.ID)
	if err != nil {
		log.Error().Err(err).Int64("order_id", order.ID).Msg("routing status check failed")
	}

	if !ready {
		server.deferSync(ctx, &order)
		return
	}

	if err := server.syncService.SyncOrder(ctx, &order); err != nil {
		// Already journaled and alerted downstream.
		ctx.JSON(http.StatusOK, gin.H{"status": "failed", "order_id": order.ID})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "synced", "order_id": order.ID})
}

// deferSync queues a background resync for an order whose fulfillment
// routing has not settled yet and acknowledges with 202.
func (server *Server) deferSync(ctx *gin.Context, order *shopify.Order) {
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.ProcessIn(30 * time.Second),
		asynq.Queue(worker.QueueCritical),
	}
	err := server.taskDistributor.DistributeTaskResyncOrder(ctx, &worker.PayloadResyncOrder{Order: *order}, opts...)
	if err != nil {
		log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to enqueue resync task")
		ctx.JSON(http.StatusOK, gin.H{"status": "failed", "order_id": order.ID})
		return
	}

	if server.alerts != nil {
		server.alerts.SyncDeferred(order.Name)
	}
	ctx.JSON(http.StatusAccepted, gin.H{"status": "awaiting_routing", "order_id": order.ID})
}
