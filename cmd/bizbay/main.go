package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bizbay/internal/app/events"
	"bizbay/internal/app/idempotency"
	"bizbay/internal/infra/backend"
	"bizbay/internal/infra/broker/kafka"
	"bizbay/internal/infra/config"
	appmongo "bizbay/internal/infra/db/mongo"
	ginserver "bizbay/internal/infra/http/gin"
	"bizbay/internal/infra/obs"
	"bizbay/internal/infra/storage/memory"
	"bizbay/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// missing .env is the normal case outside local dev
	_ = godotenv.Load()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	client, err := backend.New(backend.Config{
		BaseURL:         cfg.BackendBaseURL,
		Timeout:         cfg.BackendTimeout,
		BreakerMaxFails: cfg.BreakerMaxFails,
		BreakerCooldown: cfg.BreakerCooldown,
	}, logger)
	if err != nil {
		logger.Error("backend client init failed", "error", err)
		os.Exit(1)
	}

	checks := map[string]func(context.Context) error{}
	var idemStore idempotency.Store = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	if cfg.MongoURI != "" {
		mongoClient, err := appmongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		idemStore = appmongo.NewIdempotencyStore(mongoClient.DB, cfg.IdempotencyTTL)
		checks["mongo"] = func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return mongoClient.Ping(pingCtx)
		}
		logger.Info("mongo idempotency store enabled", "db", cfg.MongoDB)
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = &events.Publisher{
			Broker:      producer,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Logger:      logger,
		}
		logger.Info("audit events enabled", "brokers", cfg.KafkaBrokers)
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("s3 uploader unavailable", "error", err)
		} else {
			uploader = s3Client
		}
	}

	handlers := buildHandlers(cfg, client, idemStore, publisher, uploader, logger)
	if cfg.RateLimitPerMin > 0 {
		limiter := ginserver.NewIPRateLimiter(cfg.RateLimitPerMin, logger)
		defer limiter.Close()
		handlers.RateLimit = limiter.Handler()
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: checks,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "backend", cfg.BackendBaseURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildHandlers(cfg config.Config, client *backend.Client, idemStore idempotency.Store, publisher *events.Publisher, uploader s3.Uploader, logger *slog.Logger) ginserver.Handlers {
	handlers := ginserver.Handlers{
		Chat: ginserver.ChatHandler{
			Backend: client,
			Events:  publisher,
			Logger:  logger,
		},
		Auth: ginserver.AuthHandler{
			Backend: client,
			Cookie: ginserver.CookieConfig{
				Domain: cfg.CookieDomain,
				Secure: cfg.CookieSecure,
				MaxAge: cfg.CookieMaxAge,
			},
			Logger: logger,
		},
		Service: ginserver.ServiceHandler{
			Backend:     client,
			Idempotency: idemStore,
			Events:      publisher,
			Logger:      logger,
		},
		Upload: ginserver.UploadHandler{
			Uploader: uploader,
			Logger:   logger,
		},
	}
	return handlers
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
