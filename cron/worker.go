package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"telecare/config"
	"telecare/models"
	slotSvc "telecare/services/slot"
	"telecare/services/tasks"
	"telecare/utils"
)

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the asynq client used to enqueue operator tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpt())
}

// InitWorker runs the async worker and the daily sweep scheduler in the
// background. The sweep also runs once at boot so a service that was down
// over midnight still catches up.
func InitWorker(slots slotSvc.SlotService, loc *time.Location) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSweepExpiredSlots, handleSweepTask(slots))
	mux.HandleFunc(tasks.TypeReviewPaymentConflict, handleConflictTask())

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("async worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("async worker could not start, giving up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	startSweepScheduler(loc, logger)

	// Catch-up sweep at boot.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := slots.SweepExpired(ctx); err != nil {
			logger.Error("boot-time slot sweep failed", zap.Error(err))
		}
	}()
}

// startSweepScheduler enqueues the sweep task at midnight in the service
// time zone.
func startSweepScheduler(loc *time.Location, logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpt(), &asynq.SchedulerOpts{Location: loc})

	if _, err := scheduler.Register("0 0 * * *", tasks.NewSweepTask()); err != nil {
		logger.Fatal("failed to register sweep schedule", zap.Error(err))
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("sweep scheduler stopped", zap.Error(err))
		}
	}()
}

func handleSweepTask(slots slotSvc.SlotService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		deleted, err := slots.SweepExpired(ctx)
		if err != nil {
			utils.GetLogger().Error("scheduled slot sweep failed", zap.Error(err))
			return err
		}
		utils.GetLogger().Info("scheduled slot sweep finished", zap.Int64("deleted", deleted))
		return nil
	}
}

// handleConflictTask surfaces a reconciliation conflict to operators. The
// record is already persisted; this is the alerting side.
func handleConflictTask() asynq.HandlerFunc {
	return func(_ context.Context, task *asynq.Task) error {
		var conflict models.ReconciliationConflict
		if err := json.Unmarshal(task.Payload(), &conflict); err != nil {
			utils.GetLogger().Error("invalid conflict payload", zap.Error(err))
			return err
		}
		utils.GetLogger().Error("payment needs operator review",
			zap.String("sessionId", conflict.SessionID),
			zap.String("date", conflict.Date),
			zap.String("time", conflict.Time),
			zap.String("reason", conflict.Reason))
		return nil
	}
}
