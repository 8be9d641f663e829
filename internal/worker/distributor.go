package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

const (
	TaskResyncOrder = "order:resync"
)

/*
This file contains the code that creates tasks and pushes them onto the Redis
queue.
*/

type TaskDistributor interface {
	DistributeTaskResyncOrder(ctx context.Context, payload *PayloadResyncOrder, opts ...asynq.Option) error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to the redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}
