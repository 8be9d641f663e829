package ordersync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// WaitForRouting polls the Shopify order until at least one fulfillment order
// exists and a physical location is assigned, up to the configured attempt
// ceiling. Shopify's own routing is asynchronous and can take 10-30 seconds
// after the webhook fires. Exhausting the poll is not an error: the sync is
// simply deferred.
func (s *Service) WaitForRouting(ctx context.Context, orderID int64) (bool, error) {
	for attempt := 1; attempt <= s.cfg.PollAttempts; attempt++ {
		status, err := s.shop.OrderRoutingStatus(ctx, orderID)
		if err != nil {
			log.Warn().Err(err).Int64("order_id", orderID).Int("attempt", attempt).Msg("routing status lookup failed")
		} else if status.Ready() {
			log.Info().Int64("order_id", orderID).Int("attempt", attempt).Msg("fulfillment orders ready")
			return true, nil
		}

		if attempt < s.cfg.PollAttempts {
			log.Info().
				Int64("order_id", orderID).
				Int("attempt", attempt).
				Dur("retry_in", s.cfg.PollInterval).
				Msg("no fulfillment orders yet, retrying")
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(s.cfg.PollInterval):
			}
		}
	}

	log.Warn().Int64("order_id", orderID).Int("attempts", s.cfg.PollAttempts).Msg("order routing not ready, deferring sync")
	return false, nil
}
