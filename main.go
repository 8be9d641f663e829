package main

import (
	"context"
	"os"

	"github.com/enzy-delivery/carrier-sync/api"
	"github.com/enzy-delivery/carrier-sync/internal/journal"
	"github.com/enzy-delivery/carrier-sync/internal/notifier"
	"github.com/enzy-delivery/carrier-sync/internal/ordersync"
	"github.com/enzy-delivery/carrier-sync/internal/rates"
	"github.com/enzy-delivery/carrier-sync/internal/reconcile"
	"github.com/enzy-delivery/carrier-sync/internal/routewatch"
	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
	"github.com/enzy-delivery/carrier-sync/internal/util"
	"github.com/enzy-delivery/carrier-sync/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	journalStore := journal.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	redisOpt := asynq.RedisClientOpt{Addr: config.RedisServerAddress}
	taskDistributor := worker.NewTaskDistributor(redisOpt)

	shopClient := shopify.NewClient(config.ShopifyAdminURL, config.ShopifyAccessToken)
	dispatchClient := stopsuite.NewClient(config.StopSuiteBaseURL, config.StopSuiteAPIKey, config.StopSuiteSecretKey)

	alerts, err := notifier.NewDiscord(config.DiscordBotToken, config.DiscordChannelID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create notifier 😣")
	}
	if alerts != nil {
		log.Info().Msg("Discord notifier created successfully ✅")
	}

	watcher, err := routewatch.NewWatcher(dispatchClient, redisDb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create route watcher 😣")
	}
	if err = watcher.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start route watcher 😣")
	}
	defer watcher.Stop()

	syncService := ordersync.NewService(dispatchClient, shopClient, journalStore, alerts, watcher, ordersync.Config{
		Tolerate502:  config.Tolerate502,
		ProductTable: config.ProductTable,
	})

	reconciler := reconcile.NewService(shopClient, config.CarrierName, config.StopBaseURL, config.LegacyLocationID)

	rateEngine := rates.NewEngine(buildGeocoder(config), buildZoneChecker(config, dispatchClient), config.RateLocationID)

	go runTaskProcessor(redisOpt, syncService)

	runHTTPServer(&config, rateEngine, syncService, reconciler, taskDistributor, redisDb, shopClient, dispatchClient, alerts)
}

// buildGeocoder prefers Google geocoding and falls back to the static
// Nashville ZIP table when no API key is configured.
func buildGeocoder(config util.Config) rates.Geocoder {
	if config.GoogleMapsAPIKey != "" {
		return rates.NewGoogleGeocoder(config.GoogleMapsAPIKey)
	}
	log.Warn().Msg("no Google Maps API key, using ZIP-centroid geocoder")
	return rates.ZIPGeocoder{}
}

func buildZoneChecker(config util.Config, dispatchClient *stopsuite.Client) rates.ZoneChecker {
	if config.UseRemoteZone {
		return rates.RemoteZone{Dispatch: dispatchClient}
	}
	return rates.RadiusZone{
		Name:     "local",
		Center:   rates.Coordinates{Lat: config.ZoneCenterLat, Lng: config.ZoneCenterLng},
		RadiusKm: config.ZoneRadiusKm,
	}
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, syncService *ordersync.Service) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, syncService)
	log.Info().Msg("starting task processor")

	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runHTTPServer(config *util.Config, rateEngine *rates.Engine, syncService *ordersync.Service, reconciler *reconcile.Service, taskDistributor worker.TaskDistributor, redisDb *redis.Client, shopClient *shopify.Client, dispatchClient *stopsuite.Client, alerts *notifier.Discord) {
	server, err := api.NewServer(config, rateEngine, syncService, reconciler, taskDistributor, redisDb, shopClient, dispatchClient, alerts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
