package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codetrack/api/internal/config"
	"codetrack/api/internal/handlers"
	"codetrack/api/internal/jobs"
	"codetrack/api/internal/mailer"
	"codetrack/api/internal/metrics"
	"codetrack/api/internal/repositories/mongo"
	"codetrack/api/internal/routers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sweepLeaseKey = "codetrack:reminder-sweep"

func newLogger(development bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func writeLimiter(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.RateLimit.Disabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window)
}

func registerRoutes(router *chi.Mux, cfg *config.Config, questionHandler *handlers.QuestionHandler, topicHandler *handlers.TopicHandler, taskHandler *handlers.TaskHandler, healthHandler *handlers.HealthHandler) {
	limit := writeLimiter(cfg)

	routers.HealthRoutes(router, healthHandler)
	routers.QuestionRoutes(router, questionHandler, limit)
	routers.TopicRoutes(router, topicHandler, limit)
	routers.TaskRoutes(router, taskHandler, limit)
}

// startReminders wires the sweep job. With REDIS_URL set every tick takes a
// lease first so only one replica mails.
func startReminders(cfg *config.Config, logger *zap.Logger, tasks *mongo.TaskRepo) (*jobs.ReminderJob, *redis.Client) {
	if !cfg.Reminder.Enabled {
		logger.Info("Reminder job disabled")
		return nil, nil
	}
	if !cfg.MailConfigured() {
		logger.Warn("SMTP credentials missing, reminder mails will fail until configured")
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	mail := mailer.NewBreakerMailer(smtpMailer, mailer.BreakerConfig{}, logger)
	job := jobs.NewReminderJob(tasks, mail, logger.Named("reminders"), cfg.Reminder.Schedule)

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		job.WithLease(jobs.NewRedisLease(rdb, sweepLeaseKey, cfg.Reminder.LeaseTTL))
		logger.Info("Reminder sweep lease enabled", zap.Duration("ttl", cfg.Reminder.LeaseTTL))
	}

	if err := job.Start(); err != nil {
		logger.Fatal("failed to start reminder job", zap.Error(err))
	}
	return job, rdb
}

func main() {
	// a local .env is optional, real environment variables win
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Log.Development)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connectCancel()

	client, err := mongo.NewClient(connectCtx, cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("db", cfg.Mongo.DBName))

	questionRepo, err := mongo.NewQuestionRepo(connectCtx, client)
	if err != nil {
		logger.Fatal("failed to init question repository", zap.Error(err))
	}
	topicRepo, err := mongo.NewTopicRepo(connectCtx, client)
	if err != nil {
		logger.Fatal("failed to init topic repository", zap.Error(err))
	}
	taskRepo, err := mongo.NewTaskRepo(connectCtx, client)
	if err != nil {
		logger.Fatal("failed to init task repository", zap.Error(err))
	}

	questionHandler := handlers.NewQuestionHandler(questionRepo, topicRepo, logger, cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	topicHandler := handlers.NewTopicHandler(topicRepo, questionRepo, logger)
	taskHandler := handlers.NewTaskHandler(taskRepo, logger, cfg.Reminder.DefaultEmail)
	healthHandler := handlers.NewHealthHandler(client, logger)

	reminderJob, rdb := startReminders(cfg, logger, taskRepo)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, cfg, questionHandler, topicHandler, taskHandler, healthHandler)

	serverAddr := cfg.Addr()

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API server starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("API server shutting down...")

	if reminderJob != nil {
		reminderJob.Stop()
	}

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Close(ctx); err != nil {
		logger.Error("failed to disconnect from mongo", zap.Error(err))
	}

	logger.Info("API server exited")
}
