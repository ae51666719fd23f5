package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/auth"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/config"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/gateway"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/handlers"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/middleware"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/ratelimit"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/redis"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/server"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/signature"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logging.InitGlobalLogger()
	defer logging.MustSync()
	logger := logging.GetGlobalLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	redisClient, err := redis.NewClient(&redis.Config{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDBNumber(),
		PoolSize: cfg.RedisPoolSizeNumber(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	limiter := ratelimit.NewLimiter(redisClient, &ratelimit.Config{
		DefaultLimit:  cfg.RateLimit(),
		DefaultWindow: cfg.RateLimitWindowDuration(),
		Enabled:       cfg.RateLimitEnabled,
	})

	authenticator := auth.New(cfg.JWTSecret)

	gatewayClient := gateway.NewClient(&gateway.Config{
		BaseURL:       cfg.PalmPayBaseURL,
		AppID:         cfg.PalmPayAppID,
		PrivateKey:    cfg.PalmPayPrivateKey,
		LicenseNumber: cfg.LicenseNumber,
	}, logger)

	verifier := signature.NewVerifier(logger)

	h := handlers.New(store, redisClient, gatewayClient, verifier, cfg, logger)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	// Gateway callbacks are unauthenticated but rate limited by client IP.
	callbackLimit := limiter.HTTPMiddleware(ratelimit.ClientIP)
	router.Handle("/callbacks/palmpay", callbackLimit(http.HandlerFunc(h.HandlePalmPayCallback))).Methods("POST")

	// Authenticated API surface
	api := router.PathPrefix("/api").Subrouter()
	api.Use(authenticator.RequireAuth)
	api.HandleFunc("/accounts/virtual", h.CreateVirtualAccount).Methods("POST")
	api.HandleFunc("/wallet", h.GetWallet).Methods("GET")
	api.HandleFunc("/plans", h.GetPlans).Methods("GET")
	api.HandleFunc("/beneficiaries", h.ListBeneficiaries).Methods("GET")
	api.HandleFunc("/beneficiaries", h.SaveBeneficiary).Methods("POST")
	api.HandleFunc("/pin", h.SetPin).Methods("POST")
	api.HandleFunc("/pin/verify", h.VerifyPin).Methods("POST")

	// Health check
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	srv := server.New(router, cfg.Port)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
	logging.Info("Server started", logging.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logging.Info("Server exited")
}
