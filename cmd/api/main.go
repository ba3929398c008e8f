package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rendertool/rendertool-api/internal/config"
	"github.com/rendertool/rendertool-api/internal/domain/account"
	"github.com/rendertool/rendertool-api/internal/domain/auth"
	"github.com/rendertool/rendertool-api/internal/domain/credit"
	"github.com/rendertool/rendertool-api/internal/domain/payment"
	"github.com/rendertool/rendertool-api/internal/domain/upload"
	"github.com/rendertool/rendertool-api/internal/middleware"
	"github.com/rendertool/rendertool-api/internal/pkg/database"
	"github.com/rendertool/rendertool-api/internal/pkg/googleauth"
	"github.com/rendertool/rendertool-api/internal/pkg/imaging"
	"github.com/rendertool/rendertool-api/internal/pkg/jwt"
	"github.com/rendertool/rendertool-api/internal/pkg/logger"
	"github.com/rendertool/rendertool-api/internal/pkg/storage"
	"github.com/rendertool/rendertool-api/internal/pkg/zipline"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("Starting rendertool API")

	// Database
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Redis (optional)
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	// Shared services
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	var verifier googleauth.TokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = googleauth.NewVerifier(cfg.GoogleClientID, 10*time.Second)
	} else {
		if cfg.IsProduction() {
			log.Fatal().Msg("GOOGLE_CLIENT_ID must be set in production")
		}
		log.Warn().Msg("Google client ID not configured, using insecure token verifier")
		verifier = googleauth.Insecure{}
	}

	uploader := buildUploader(cfg)

	// Repositories
	accountRepo := account.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// Services
	authService := auth.NewService(accountRepo, verifier, jwtService)
	paymentService := payment.NewService(paymentRepo, accountRepo, creditRepo, payment.Config{
		Bank: payment.BankAccount{
			BankName:      cfg.BankName,
			BankID:        cfg.BankID,
			AccountNumber: cfg.AccountNumber,
			AccountName:   cfg.AccountName,
		},
		WebhookSecret: cfg.WebhookSecret,
	})
	uploadService := upload.NewService(uploader, imaging.NewProcessor(imaging.DefaultConfig()), accountRepo)

	// Handlers
	authHandler := auth.NewHandler(authService)
	accountHandler := account.NewHandler(accountRepo, creditRepo)
	paymentHandler := payment.NewHandler(paymentService)
	uploadHandler := upload.NewHandler(uploadService)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(redisClient, "auth", 5, time.Minute))
			r.Mount("/", authHandler.Routes())
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/packages", paymentHandler.ListPackages)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(redisClient, "create-order", 10, time.Minute))
				r.Use(middleware.OptionalAuth(jwtService))
				r.Post("/create-order", paymentHandler.CreateOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(redisClient, "payment-status", 60, time.Minute))
				r.Get("/{transactionID}/status", paymentHandler.GetStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(redisClient, "webhook", 120, time.Minute))
				r.Post("/webhook", paymentHandler.Webhook)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(middleware.RateLimit(redisClient, "upload", 20, time.Minute))
			r.Use(middleware.Auth(jwtService))
			r.Post("/", uploadHandler.UploadFile)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Auth(jwtService))
			r.Get("/me", accountHandler.Me)
			r.Get("/me/transactions", accountHandler.Transactions)
			r.Get("/me/orders", paymentHandler.ListMyOrders)
			r.With(middleware.RateLimit(redisClient, "avatar", 20, time.Minute)).
				Post("/avatar", uploadHandler.UploadAvatar)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	<-done
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

// buildUploader picks the file storage backend: Zipline when configured,
// S3 as fallback, nil when neither is set up.
func buildUploader(cfg *config.Config) storage.Uploader {
	if cfg.ZiplineAPIURL != "" && cfg.ZiplineAPIKey != "" {
		log.Info().Str("url", cfg.ZiplineAPIURL).Msg("Using Zipline file storage")
		return zipline.NewClient(cfg.ZiplineAPIURL, cfg.ZiplineAPIKey, 30*time.Second)
	}

	s3Uploader, err := storage.NewS3Uploader(storage.S3Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Warn().Msg("No file storage configured, uploads disabled")
		return nil
	}
	log.Info().Str("bucket", cfg.S3Bucket).Msg("Using S3 file storage")
	return s3Uploader
}
