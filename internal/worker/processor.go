package worker

import (
	"context"

	"github.com/enzy-delivery/carrier-sync/internal/ordersync"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

/*
This file contains the code that picks tasks up from the Redis queue and
processes them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type RedisTaskProcessor struct {
	server      *asynq.Server
	syncService *ordersync.Service
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, syncService *ordersync.Service) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	return &RedisTaskProcessor{
		server:      server,
		syncService: syncService,
	}
}

// Start registers the task handlers on the mux and starts the asynq server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskResyncOrder, processor.ProcessTaskResyncOrder)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
