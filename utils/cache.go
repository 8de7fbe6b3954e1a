package utils

import (
	"context"
	"log"
	"time"

	"haulaway/config"

	"github.com/go-redis/redis/v8"
)

var (
	// WizardCacheClient holds in-flight wizard session state.
	WizardCacheClient *redis.Client
	// FlagsCacheClient is the dedicated client for the per-session persisted
	// flags (verified phone, privacy acceptance, saved address).
	FlagsCacheClient *redis.Client
)

// InitWizardCache initializes the Redis client for wizard session state.
func InitWizardCache() {
	WizardCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWizardDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := WizardCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Wizard Cache): %v", err)
	}
}

// GetWizardCacheClient returns the wizard session cache client.
func GetWizardCacheClient() *redis.Client {
	if WizardCacheClient == nil {
		InitWizardCache()
	}
	return WizardCacheClient
}

// InitFlagsCache initializes the Redis client for persisted session flags.
func InitFlagsCache() {
	FlagsCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisFlagsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := FlagsCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Flags Cache): %v", err)
	}
}

// GetFlagsCacheClient returns the Redis client for persisted session flags.
func GetFlagsCacheClient() *redis.Client {
	if FlagsCacheClient == nil {
		InitFlagsCache()
	}
	return FlagsCacheClient
}

// InitRedis initializes all Redis clients at startup.
func InitRedis() {
	InitWizardCache()
	InitFlagsCache()
}
