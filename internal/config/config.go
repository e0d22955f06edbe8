package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PurchaseConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	PurchaseDB     `yaml:"purchase_db"`
	LogConfig      `yaml:"log_config"`
	CatalogService `yaml:"catalog_service"`
	Gateway        `yaml:"gateway"`
	KafkaService   `yaml:"kafka_service"`
	Redis          `yaml:"redis"`
	Payment        `yaml:"payment"`
	Pricing        `yaml:"pricing"`
	Fee            `yaml:"fee"`
	Purchase       `yaml:"purchase"`
	Background     `yaml:"background"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"15s"`
}

type PurchaseDB struct {
	Dsn            string `yaml:"dsn" env:"PURCHASE_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"PURCHASE_DB_MIGRATIONS_PATH"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type CatalogService struct {
	Host    string        `yaml:"host" env:"CATALOG_HOST"`
	Port    string        `yaml:"port" env:"CATALOG_PORT"`
	Timeout time.Duration `yaml:"timeout" env-default:"3s"`
}

type Gateway struct {
	// BaseURL hosts the session (snap) API, APIURL the core API used for cancels.
	BaseURL    string        `yaml:"base_url" env:"GATEWAY_BASE_URL"`
	APIURL     string        `yaml:"api_url" env:"GATEWAY_API_URL"`
	ServerKey  string        `yaml:"server_key" env:"GATEWAY_SERVER_KEY" env-required:"true"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"24h"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
	TimeZone   string        `yaml:"time_zone" env-default:"Asia/Jakarta"`
}

type KafkaService struct {
	Host                 string `yaml:"host" env:"KAFKA_HOST"`
	Port                 string `yaml:"port" env:"KAFKA_PORT"`
	PurchaseTopic        string `yaml:"purchase_topic" env-default:"purchase-events"`
	NotificationsTopic   string `yaml:"notifications_topic" env-default:"payment-notifications"`
	GroupID              string `yaml:"group_id" env-default:"purchase-service"`
	ConsumeNotifications bool   `yaml:"consume_notifications"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr    string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	TTL     time.Duration `yaml:"ttl" env-default:"5m"`
}

type Payment struct {
	// DownPaymentPolicy is "fraction" (DownPaymentValue of the total) or
	// "fixed" (DownPaymentValue as an amount).
	DownPaymentPolicy string  `yaml:"down_payment_policy" env-default:"fraction"`
	DownPaymentValue  float64 `yaml:"down_payment_value" env-default:"0.5"`
	CurrencyScale     int32   `yaml:"currency_scale" env-default:"0"`
}

type Pricing struct {
	DefaultMaxQuantity int `yaml:"default_max_quantity" env-default:"250"`
}

type Fee struct {
	ShopLat       float64 `yaml:"shop_lat"`
	ShopLon       float64 `yaml:"shop_lon"`
	Base          float64 `yaml:"base" env-default:"5000"`
	PerKm         float64 `yaml:"per_km" env-default:"2500"`
	MaxDistanceKm float64 `yaml:"max_distance_km" env-default:"25"`
}

type Purchase struct {
	StaleAfter      time.Duration `yaml:"stale_after" env-default:"24h"`
	ConflictRetries int           `yaml:"conflict_retries" env-default:"3"`
}

type Background struct {
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval" env-default:"30s"`
	SweepBatchSize      int           `yaml:"sweep_batch_size" env-default:"100"`
}

func Load(configPath string) (*PurchaseConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg PurchaseConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *PurchaseConfig {
	// Processing env config variable and file
	configPath := os.Getenv("PURCHASE_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("PURCHASE_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
