package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/training-service/internal/cache"
	"github.com/SAP-F-2025/training-service/internal/config"
	"github.com/SAP-F-2025/training-service/internal/handlers"
	"github.com/SAP-F-2025/training-service/internal/jobs"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/SAP-F-2025/training-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := utils.NewLogger(cfg.Environment)
	logger.Info("Starting training service", "environment", cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Assessment{},
		&models.Question{},
		&models.AssessmentResult{},
		&models.Answer{},
		&models.CandidateProfile{},
		&models.UserActivity{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Batch{},
		&models.Enrollment{},
	); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	rdb, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	queue, err := cfg.Jobs.CreateQueue(rdb, logger)
	if err != nil {
		logger.Error("Failed to create job queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()
	cacheService := cache.NewRedisCache(rdb, logger)
	mailer := services.NewLogMailer(logger)

	rankingService := services.NewRankingService(repo, cacheService, logger)

	orchestrator := jobs.NewOrchestrator(jobs.OrchestratorConfig{
		Grading:       services.NewGradingService(repo, logger),
		Achievements:  services.NewAchievementService(repo, logger),
		Progress:      services.NewProgressService(repo, logger),
		Streaks:       services.NewStreakService(repo, logger),
		Rankings:      rankingService,
		BatchStats:    services.NewBatchStatsService(repo, logger),
		Notifications: services.NewNotificationService(mailer, logger, validator),
		Reports:       services.NewReportService(repo, logger, cfg.ReportDir),
		Repo:          repo,
		Queue:         queue,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The consumer and schedule poller only run against a real broker. With
	// the mock queue the process still serves triggers and the leaderboard,
	// which is enough for local development.
	if kafkaQueue, ok := queue.(*jobs.KafkaQueue); ok {
		worker, err := jobs.NewWorker(jobs.WorkerConfig{
			KafkaBrokers:  cfg.Jobs.GetKafkaBrokers(),
			Topic:         cfg.Jobs.JobsTopic,
			PoisonTopic:   cfg.Jobs.PoisonTopic,
			ConsumerGroup: cfg.Jobs.ConsumerGroup,
			MaxRetries:    cfg.Jobs.MaxRetries,
			Orchestrator:  orchestrator,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("Failed to create job worker", "error", err)
			os.Exit(1)
		}
		defer worker.Close()

		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Job worker stopped", "error", err)
				stop()
			}
		}()

		poller := jobs.NewSchedulePoller(rdb, kafkaQueue, cfg.Jobs.PollInterval, logger)
		go func() {
			if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Schedule poller stopped", "error", err)
			}
		}()
	}

	triggers := jobs.NewTriggers(queue, cfg.ActivityRetentionDays, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	handlerManager := handlers.NewHandlerManager(triggers, queue, rankingService, validator, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	logger.Info("Shutdown complete")
}
