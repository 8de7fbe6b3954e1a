package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisWizardDB int    `mapstructure:"REDIS_WIZARD_DB"`
	RedisFlagsDB  int    `mapstructure:"REDIS_FLAGS_DB"`

	// Dispatch platform API (the remote booking backend).
	DispatchBaseURL    string `mapstructure:"DISPATCH_BASE_URL"`
	DispatchTimeoutSec int    `mapstructure:"DISPATCH_TIMEOUT_SEC"`

	// Wizard behaviour.
	WizardSessionTTLMin int    `mapstructure:"WIZARD_SESSION_TTL_MIN"`
	SearchDebounceMS    int    `mapstructure:"SEARCH_DEBOUNCE_MS"`
	PhotoSpoolDir       string `mapstructure:"PHOTO_SPOOL_DIR"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_WIZARD_DB", 0)
	viper.SetDefault("REDIS_FLAGS_DB", 1)
	viper.SetDefault("DISPATCH_BASE_URL", "https://amzy.me/testapp/api/web")
	viper.SetDefault("DISPATCH_TIMEOUT_SEC", 15)
	viper.SetDefault("WIZARD_SESSION_TTL_MIN", 30)
	viper.SetDefault("SEARCH_DEBOUNCE_MS", 300)
	viper.SetDefault("PHOTO_SPOOL_DIR", "")

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
