package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins      []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress   string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	TokenSecretKey      string        `mapstructure:"TOKEN_SECRET_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	AdminAccessKey      string        `mapstructure:"ADMIN_ACCESS_KEY"`
	RedisServerAddress  string        `mapstructure:"REDIS_SERVER_ADDRESS"`

	ShopifyAdminURL      string `mapstructure:"SHOPIFY_ADMIN_URL"`
	ShopifyAccessToken   string `mapstructure:"SHOPIFY_ACCESS_TOKEN"`
	ShopifyWebhookSecret string `mapstructure:"SHOPIFY_WEBHOOK_SECRET"`

	StopSuiteBaseURL   string `mapstructure:"STOPSUITE_BASE_URL"`
	StopSuiteAPIKey    string `mapstructure:"STOPSUITE_API_KEY"`
	StopSuiteSecretKey string `mapstructure:"STOPSUITE_SECRET_KEY"`
	Tolerate502        bool   `mapstructure:"TOLERATE_502"`

	RateLocationID   string  `mapstructure:"RATE_LOCATION_ID"`
	LegacyLocationID int64   `mapstructure:"LEGACY_LOCATION_ID"`
	CarrierName      string  `mapstructure:"CARRIER_NAME"`
	StopBaseURL      string  `mapstructure:"STOP_BASE_URL"`
	GoogleMapsAPIKey string  `mapstructure:"GOOGLE_MAPS_API_KEY"`
	ZoneCenterLat    float64 `mapstructure:"ZONE_CENTER_LAT"`
	ZoneCenterLng    float64 `mapstructure:"ZONE_CENTER_LNG"`
	ZoneRadiusKm     float64 `mapstructure:"ZONE_RADIUS_KM"`
	UseRemoteZone    bool    `mapstructure:"USE_REMOTE_ZONE"`

	ProductTable map[string]int64 `mapstructure:"PRODUCT_TABLE"`

	DiscordBotToken  string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `mapstructure:"DISCORD_CHANNEL_ID"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ACCESS_TOKEN_DURATION", "24h")
	viper.SetDefault("RATE_LOCATION_ID", "81390698669")
	viper.SetDefault("LEGACY_LOCATION_ID", int64(74583474349))
	viper.SetDefault("CARRIER_NAME", "Enzy Delivery")
	viper.SetDefault("ZONE_CENTER_LAT", 36.1627)
	viper.SetDefault("ZONE_CENTER_LNG", -86.7816)
	viper.SetDefault("ZONE_RADIUS_KM", 30.0)

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.ShopifyAdminURL == "" {
		return fmt.Errorf("SHOPIFY_ADMIN_URL is required")
	}
	if config.ShopifyAccessToken == "" {
		return fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if config.ShopifyWebhookSecret == "" {
		return fmt.Errorf("SHOPIFY_WEBHOOK_SECRET is required")
	}
	if config.StopSuiteBaseURL == "" {
		return fmt.Errorf("STOPSUITE_BASE_URL is required")
	}
	if config.StopSuiteAPIKey == "" {
		return fmt.Errorf("STOPSUITE_API_KEY is required")
	}
	if config.StopSuiteSecretKey == "" {
		return fmt.Errorf("STOPSUITE_SECRET_KEY is required")
	}

	return nil
}
