package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gardenlore/internal/config"
	"gardenlore/internal/db"
	"gardenlore/internal/httpserver"
	"gardenlore/internal/mailer"
	internalmq "gardenlore/internal/mq"
	"gardenlore/internal/repository"
	"gardenlore/internal/service/reminder"
	"gardenlore/internal/service/schedule"
	"gardenlore/pkg/logger"
	"gardenlore/pkg/mq"
	"gardenlore/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting reminder-runner...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, dbConn); err != nil {
		migrateCancel()
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrateCancel()
	log.Info("Database migrations applied")

	// Redis (run lock)
	rdb := redis.NewRedisClient(cfg.Redis)
	runLock := reminder.NewRunLock(rdb, time.Duration(cfg.Reminder.LockTTLMinutes)*time.Minute)

	// MQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	zoneRepo := repository.NewHardinessZoneRepository(dbConn)
	profileRepo := repository.NewGrowingProfileRepository(dbConn)
	guideRepo := repository.NewPlantGuideRepository(dbConn)
	inventoryRepo := repository.NewSeedInventoryRepository(dbConn)
	wishlistRepo := repository.NewWishlistRepository(dbConn)
	logRepo := repository.NewReminderLogRepository(dbConn)

	// Engine
	resolver := schedule.NewFrostDateResolver(zoneRepo)
	aggregator := schedule.NewAggregator(guideRepo, inventoryRepo, wishlistRepo)
	mail := mailer.NewSMTPMailer(cfg.SMTP, log)
	runner := reminder.NewRunner(
		profileRepo,
		logRepo,
		resolver,
		aggregator,
		mail,
		publisher,
		runLock,
		cfg.Reminder.Workers,
		log,
	)

	// Daily batch - runs at 00:05 local time
	batchCtx, batchCancel := context.WithCancel(context.Background())
	defer batchCancel()

	go func() {
		// Run immediately on startup to cover missed schedules after a restart;
		// the reminder log keeps the repeat harmless.
		runner.Run(batchCtx, time.Now())

		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 5, 0, 0, now.Location())

			select {
			case <-batchCtx.Done():
				log.Info("Reminder batch loop stopped")
				return
			case <-time.After(next.Sub(now)):
				runner.Run(batchCtx, time.Now())
			}
		}
	}()

	// Manual trigger via MQ: consuming a reminder.run event starts a run now.
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "reminder.run.q", internalmq.RoutingKeyReminderRun, log)
	if err != nil {
		log.Fatal("Failed to init MQ consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(func(ctx context.Context, data json.RawMessage) error {
		var p internalmq.ReminderRunPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		log.Info("Manual reminder run triggered",
			zap.String("requested_by", p.RequestedBy),
		)
		runner.Run(ctx, time.Now())
		return nil
	})

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Error("Consumer stopped", zap.Error(err))
		}
	}()

	// HTTP server (health checks + metrics)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httpserver.NewHandler(dbConn, log),
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("reminder-runner is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down reminder-runner gracefully...")

	batchCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	consumer.Close()
	publisher.Close()
	dbConn.Close()

	log.Info("reminder-runner shutdown complete")
}
