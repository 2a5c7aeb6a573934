package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"medquiz/internal/bot"
	"medquiz/internal/config"
	"medquiz/internal/handler"
	"medquiz/internal/pkg/db"
	"medquiz/internal/pkg/logger"
	"medquiz/internal/pkg/metrics"
	"medquiz/internal/repository"
	"medquiz/internal/service"
	"medquiz/internal/session"
)

func main() {
	// Load .env before the logger so LOG_LEVEL takes effect
	_ = godotenv.Load()

	log := logger.NewLogger("medquiz")
	cfg := config.Load()

	conn, err := db.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer conn.Close()

	m := metrics.NewMetrics("medquiz")
	go reportPoolStats(conn, m)

	// Trial sessions live in Redis when it is configured, otherwise in
	// process memory.
	var trialStore session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer rdb.Close()
		trialStore = session.NewRedisStore(rdb)
	}

	categoryRepo := repository.NewCategoryRepository(conn.DB)
	quizRepo := repository.NewQuizRepository(conn.DB)
	questionRepo := repository.NewQuestionRepository(conn.DB)
	variantRepo := repository.NewVariantRepository(conn.DB)
	userRepo := repository.NewUserRepository(conn.DB)
	resultRepo := repository.NewResultRepository(conn.DB)
	answerRepo := repository.NewAnswerRepository(conn.DB)
	statsRepo := repository.NewStatsRepository(conn.DB)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	contentService := service.NewContentService(categoryRepo, quizRepo, questionRepo, variantRepo)
	progressionService := service.NewProgressionService(quizRepo, questionRepo, variantRepo, resultRepo, trialStore)
	statsService := service.NewStatsService(statsRepo, resultRepo, answerRepo, questionRepo, variantRepo, quizRepo, log)

	var webhookHandler *handler.WebhookHandler
	if cfg.TelegramToken != "" {
		quizBot, err := bot.New(cfg.TelegramToken, authService, cfg.WebAppURL, log)
		if err != nil {
			log.WithError(err).Fatal("failed to create telegram bot")
		}
		if cfg.TelegramWebhookURL != "" {
			if err := quizBot.SetWebhook(cfg.TelegramWebhookURL + "/bot/" + quizBot.Token()); err != nil {
				log.WithError(err).Fatal("failed to set telegram webhook")
			}
		}
		webhookHandler = handler.NewWebhookHandler(quizBot)
	} else {
		log.Warn("TELEGRAM_TOKEN not set, bot webhook disabled")
	}

	router := handler.NewRouter(handler.RouterDeps{
		Quiz:        handler.NewQuizHandler(contentService, progressionService, cfg.PerPage),
		Result:      handler.NewResultHandler(statsService, progressionService),
		Auth:        handler.NewAuthHandler(authService, statsService, cfg.TokenTTL),
		Admin:       handler.NewAdminHandler(contentService, statsService),
		Webhook:     webhookHandler,
		AuthService: authService,
		Logger:      log,
		Metrics:     m,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}

// reportPoolStats feeds connection pool gauges every 10 seconds
func reportPoolStats(conn *db.Connection, m *metrics.Metrics) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		stats := conn.DB.Stats()
		m.RecordDBPoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount, stats.WaitDuration)
	}
}
