package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "threadchat/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"threadchat/internal/auth"
	"threadchat/internal/cache"
	"threadchat/internal/config"
	"threadchat/internal/db"
	"threadchat/internal/handler"
	"threadchat/internal/llm"
	"threadchat/internal/logger"
	"threadchat/internal/repository"
	"threadchat/internal/router"
	"threadchat/internal/service"
)

// @title Threadchat API
// @version 1.0
// @description Conversational API with threaded chat history, Gemini completions and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	logger.InfoWithFields("store connected", logger.Fields{"driver": string(conn.Driver)})

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			logger.WarnWithFields("cache unreachable, continuing without it", logger.Fields{"addr": cfg.RedisAddr, "error": err.Error()})
		}
	}

	completion, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		log.Fatalf("completion client: %v", err)
	}

	// Initialize repositories
	userRepo, threadRepo := repository.New(conn)

	// Initialize auth components
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, cacheClient, cfg.UserCacheTTL)
	threadService := service.NewThreadService(threadRepo, completion)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(
		e,
		cfg,
		tokens,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewThreadHandler(threadService),
	)

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.InfoWithFields("shutting down", logger.Fields{"timeout": cfg.ShutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("server shutdown", logger.Fields{"error": err.Error()})
	}
	if err := conn.Close(shutdownCtx); err != nil {
		logger.ErrorWithFields("store close", logger.Fields{"error": err.Error()})
	}
	if err := cacheClient.Close(); err != nil {
		logger.ErrorWithFields("cache close", logger.Fields{"error": err.Error()})
	}
}

// swaggerURL builds the browsable docs address. host may already carry a scheme.
func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return strings.TrimSuffix(host, "/") + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
