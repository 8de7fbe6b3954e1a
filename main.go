package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"haulaway/config"
	"haulaway/cron"
	"haulaway/handlers"
	"haulaway/integrations/dispatchapi"
	"haulaway/middleware"
	"haulaway/routes"
	"haulaway/services/session"
	"haulaway/services/wizard"
	"haulaway/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	utils.InitRedis()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Dispatch platform client.
	dispatchClient := dispatchapi.NewClient(
		config.AppConfig.DispatchBaseURL,
		time.Duration(config.AppConfig.DispatchTimeoutSec)*time.Second,
		logger,
	)

	// Photo spool.
	photoStore, err := wizard.NewPhotoStore(config.AppConfig.PhotoSpoolDir)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize photo spool: %v", err)
	}

	sessionTTL := time.Duration(config.AppConfig.WizardSessionTTLMin) * time.Minute
	flagsFactory := &session.RedisFactory{
		Client: utils.GetFlagsCacheClient(),
		TTL:    sessionTTL,
	}

	stateCache := wizard.NewRedisStateCache(utils.GetWizardCacheClient())

	wizardService := wizard.NewWizardService(
		stateCache,
		flagsFactory,
		dispatchClient,
		photoStore,
		sessionTTL,
		time.Duration(config.AppConfig.SearchDebounceMS)*time.Millisecond,
	)

	cron.InitSpoolJanitor(photoStore, stateCache)

	hb := handlers.NewHandlerBundle(wizardService)
	routes.RegisterRoutes(router, hb)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetWizardCacheClient(), utils.GetFlagsCacheClient()},
		config.AppConfig.DispatchBaseURL,
	)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Server listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}
