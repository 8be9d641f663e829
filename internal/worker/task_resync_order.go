package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// PayloadResyncOrder carries the full webhook order so the worker can replay
// the sync without another Shopify round trip.
type PayloadResyncOrder struct {
	Order shopify.Order `json:"order"`
}

func (distributor *RedisTaskDistributor) DistributeTaskResyncOrder(ctx context.Context, payload *PayloadResyncOrder, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskResyncOrder, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Int64("order_id", payload.Order.ID).
		Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("enqueued task")
	return nil
}

// ProcessTaskResyncOrder re-checks fulfillment routing for a deferred order
// and runs the full StopSuite sync once routing is ready. An order that is
// still unrouted returns an error so asynq retries with backoff until the
// task's retry budget runs out.
func (processor *RedisTaskProcessor) ProcessTaskResyncOrder(ctx context.Context, task *asynq.Task) error {
	var payload PayloadResyncOrder
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	order := payload.Order
	ready, err := processor.syncService.WaitForRouting(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("routing status check for order %d: %w", order.ID, err)
	}
	if !ready {
		return fmt.Errorf("order %d fulfillment routing not ready", order.ID)
	}

	if err := processor.syncService.SyncOrder(ctx, &order); err != nil {
		// SyncOrder already journals the failure and alerts, so the
		// task is done either way.
		log.Error().Err(err).Int64("order_id", order.ID).Msg("deferred sync failed")
		return nil
	}

	log.Info().Str("type", task.Type()).Int64("order_id", order.ID).
		Str("order_name", order.Name).Msg("processed task")
	return nil
}
