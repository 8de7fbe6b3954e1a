package cron

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"haulaway/config"
	"haulaway/services/wizard"
	"haulaway/utils"
)

const TypeSpoolSweep = "spool:sweep"

// InitSpoolJanitor runs the async worker that sweeps photo spool directories
// left behind by expired wizard sessions. A session's photos live on disk
// while its state lives in Redis with a TTL; once the state is gone the
// spooled files have no owner and get removed here.
func InitSpoolJanitor(photos *wizard.PhotoStore, cache wizard.StateCache) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWizardDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSpoolSweep, handleSpoolSweep(photos, cache))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register("@every 15m", asynq.NewTask(TypeSpoolSweep, nil)); err != nil {
		log.Printf("[SpoolJanitor] failed to register sweep schedule: %v", err)
		return
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[SpoolJanitor] scheduler stopped: %v", err)
		}
	}()

	go func() {
		log.Println("[SpoolJanitor] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SpoolJanitor] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Println("[SpoolJanitor] max retry attempts reached, giving up")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSpoolSweep(photos *wizard.PhotoStore, cache wizard.StateCache) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		sessions, err := photos.Sessions()
		if err != nil {
			logger.Warn("Spool sweep could not list sessions", zap.Error(err))
			return err
		}

		swept := 0
		for _, sessionID := range sessions {
			_, err := cache.Get(ctx, wizard.StateKey(sessionID))
			if err == nil {
				continue
			}
			if !errors.Is(err, wizard.ErrCacheMiss) {
				logger.Warn("Spool sweep state lookup failed",
					zap.String("sessionID", sessionID), zap.Error(err))
				continue
			}
			if err := photos.Clear(sessionID); err != nil {
				logger.Warn("Spool sweep cleanup failed",
					zap.String("sessionID", sessionID), zap.Error(err))
				continue
			}
			swept++
		}

		if swept > 0 {
			logger.Info("Spool sweep removed orphaned photo directories", zap.Int("count", swept))
		}
		return nil
	}
}
