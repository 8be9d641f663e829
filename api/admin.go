package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type loginAdminRequest struct {
	AccessKey string `json:"access_key" binding:"required"`
}

type loginAdminResponse struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

func (server *Server) loginAdmin(ctx *gin.Context) {
	var req loginAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if server.config.AdminAccessKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(server.config.AdminAccessKey)) != 1 {
		ctx.JSON(http.StatusUnauthorized, errorResponse(ErrInvalidAccessKey))
		return
	}

	accessToken, payload, err := server.tokenMaker.CreateToken("admin", server.config.AccessTokenDuration)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, loginAdminResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiresAt.Time,
	})
}

func (server *Server) getOrderRouting(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	status, err := server.shopClient.OrderRoutingStatus(ctx, orderID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	if status == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"order_id": orderID,
		"ready":    status.Ready(),
		"routing":  status,
	})
}

// resyncOrder queues a fresh sync for an order that never made it into
// StopSuite, for example after an outage or an exhausted deferral.
func (server *Server) resyncOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	order, err := server.shopClient.GetOrder(ctx, orderID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	if order == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue(worker.QueueDefault),
	}
	if err := server.taskDistributor.DistributeTaskResyncOrder(ctx, &worker.PayloadResyncOrder{Order: *order}, opts...); err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	log.Info().Int64("order_id", orderID).Msg("manual resync queued")
	ctx.JSON(http.StatusAccepted, gin.H{"status": "queued", "order_id": orderID})
}

func (server *Server) listActiveRoutes(ctx *gin.Context) {
	details, err := server.dispatchClient.ActiveRouteDetails(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"routes": details})
}
