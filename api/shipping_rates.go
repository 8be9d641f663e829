package api

import (
	"net/http"

	"github.com/enzy-delivery/carrier-sync/internal/rates"
	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
)

type shippingRatesRequest struct {
	Rate struct {
		Destination rates.Destination `json:"destination"`
		Currency    string            `json:"currency"`
	} `json:"rate"`
}

type shippingRatesResponse struct {
	Rates []rates.Rate `json:"rates"`
}

// resolveShippingRates answers Shopify carrier-service callbacks. The
// response is always 200 with a rates array; an empty array tells checkout
// to fall back to the store's default shipping options.
func (server *Server) resolveShippingRates(ctx *gin.Context) {
	requestID := shortuuid.New()
	logger := log.With().Str("request_id", requestID).Logger()

	var req shippingRatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Warn().Err(err).Msg("unparseable rate request, returning no rates")
		ctx.JSON(http.StatusOK, shippingRatesResponse{Rates: []rates.Rate{}})
		return
	}

	resolved, exclusive := server.rateEngine.ResolveRates(ctx, req.Rate.Destination)
	if resolved == nil {
		resolved = []rates.Rate{}
	}

	logger.Info().
		Str("zip", req.Rate.Destination.ZipCode()).
		Int("rates", len(resolved)).
		Bool("exclusive", exclusive).
		Msg("resolved shipping rates")

	if exclusive {
		// Keep checkout from mixing cached third-party rates with the
		// exclusive local option.
		ctx.Header("X-Shopify-Carrier-Exclusive", "true")
		ctx.Header("Cache-Control", "no-store")
	}

	ctx.JSON(http.StatusOK, shippingRatesResponse{Rates: resolved})
}
