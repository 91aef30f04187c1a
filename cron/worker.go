package cron

import (
	"context"
	"log"
	"time"

	"github.com/larrybwosi/realstate-sub001/config"
	"github.com/larrybwosi/realstate-sub001/services/payment"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypePaymentReconcile = "payment:reconcile"

// InitReconcileWorker runs the reconciliation sweep machinery in background:
// an asynq server consuming sweep tasks and a scheduler enqueueing one on the
// configured interval.
func InitReconcileWorker(paymentSvc payment.PaymentService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// One sweep at a time; the sweep itself caps its in-flight
			// gateway queries.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentReconcile, handleReconcileTask(paymentSvc))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(
		config.AppConfig.SweepInterval,
		asynq.NewTask(TypePaymentReconcile, nil),
	); err != nil {
		log.Fatalf("[ReconcileWorker] failed to register sweep schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[ReconcileWorker] 🚀 Starting sweep scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[ReconcileWorker] ❗ Scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReconcileWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReconcileTask(paymentSvc payment.PaymentService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		threshold := config.AppConfig.SweepThreshold
		log.Printf("[ReconcileHandler] ⏰ Sweeping payments pending longer than %s", threshold)

		if err := paymentSvc.ReconcileOverdue(ctx, threshold); err != nil {
			log.Printf("[ReconcileHandler] ❌ Sweep failed: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReconcileWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
