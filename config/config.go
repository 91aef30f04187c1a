package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	AdminToken  string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Daraja (M-Pesa) gateway configuration.
	MpesaBaseURL        string        `mapstructure:"MPESA_BASE_URL"`
	MpesaConsumerKey    string        `mapstructure:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret string        `mapstructure:"MPESA_CONSUMER_SECRET"`
	MpesaShortcode      string        `mapstructure:"MPESA_SHORTCODE"`
	MpesaPasskey        string        `mapstructure:"MPESA_PASSKEY"`
	MpesaCallbackURL    string        `mapstructure:"MPESA_CALLBACK_URL"`
	MpesaTimeout        time.Duration `mapstructure:"MPESA_TIMEOUT"`

	// Reconciliation sweep tuning.
	SweepInterval    string        `mapstructure:"SWEEP_INTERVAL"`
	SweepThreshold   time.Duration `mapstructure:"SWEEP_THRESHOLD"`
	SweepMaxAttempts int           `mapstructure:"SWEEP_MAX_ATTEMPTS"`
	SweepConcurrency int           `mapstructure:"SWEEP_CONCURRENCY"`

	// Firebase service account for tenant push notifications.
	FirebaseCredsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	viper.SetDefault("MPESA_TIMEOUT", "30s")
	viper.SetDefault("SWEEP_INTERVAL", "@every 2m")
	viper.SetDefault("SWEEP_THRESHOLD", "5m")
	viper.SetDefault("SWEEP_MAX_ATTEMPTS", 5)
	viper.SetDefault("SWEEP_CONCURRENCY", 4)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
