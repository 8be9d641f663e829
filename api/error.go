package api

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidWebhookSignature = errors.New("webhook signature verification failed")
	ErrReplayedWebhook         = errors.New("webhook nonce already seen")
	ErrInvalidAccessKey        = errors.New("invalid access key")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
