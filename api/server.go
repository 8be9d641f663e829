package api

import (
	"fmt"

	"github.com/enzy-delivery/carrier-sync/internal/ordersync"
	"github.com/enzy-delivery/carrier-sync/internal/rates"
	"github.com/enzy-delivery/carrier-sync/internal/reconcile"
	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
	"github.com/enzy-delivery/carrier-sync/internal/token"
	"github.com/enzy-delivery/carrier-sync/internal/util"
	"github.com/enzy-delivery/carrier-sync/internal/worker"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router          *gin.Engine
	config          *util.Config
	tokenMaker      token.Maker
	rateEngine      *rates.Engine
	syncService     *ordersync.Service
	reconciler      *reconcile.Service
	taskDistributor worker.TaskDistributor
	redisClient     *redis.Client
	shopClient      *shopify.Client
	dispatchClient  *stopsuite.Client
	alerts          ordersync.Notifier
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(config *util.Config, rateEngine *rates.Engine, syncService *ordersync.Service, reconciler *reconcile.Service, taskDistributor worker.TaskDistributor, redisClient *redis.Client, shopClient *shopify.Client, dispatchClient *stopsuite.Client, alerts ordersync.Notifier) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	server := &Server{
		config:          config,
		tokenMaker:      tokenMaker,
		rateEngine:      rateEngine,
		syncService:     syncService,
		reconciler:      reconciler,
		taskDistributor: taskDistributor,
		redisClient:     redisClient,
		shopClient:      shopClient,
		dispatchClient:  dispatchClient,
		alerts:          alerts,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", server.checkHealth)

	apiGroup := router.Group("/api")

	apiGroup.POST("/shipping-rates", server.resolveShippingRates)

	webhookGroup := apiGroup.Group("/webhooks")
	webhookGroup.POST("/order-created", server.handleOrderCreated)
	webhookGroup.POST("/stopsuite-complete", server.handleStopCompleted)

	adminGroup := apiGroup.Group("/admin")
	adminGroup.POST("/login", server.loginAdmin)

	adminGroup.Use(authMiddleware(server.tokenMaker))
	adminGroup.GET("/orders/:id/routing", server.getOrderRouting)
	adminGroup.POST("/orders/:id/resync", server.resyncOrder)
	adminGroup.GET("/routes/active", server.listActiveRoutes)

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
