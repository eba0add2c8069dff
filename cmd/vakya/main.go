package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vakya-corpus/vakya"
	_ "github.com/vakya-corpus/vakya/backend/redisearch"
	_ "github.com/vakya-corpus/vakya/backend/sqlitevec"
	"github.com/vakya-corpus/vakya/embed/hashing"
	openaiEmb "github.com/vakya-corpus/vakya/embed/openai"
	"github.com/vakya-corpus/vakya/internal/config"
	logpkg "github.com/vakya-corpus/vakya/internal/logger"
	"github.com/vakya-corpus/vakya/internal/transport/httpapi"
	"github.com/vakya-corpus/vakya/internal/version"
)

func main() {
	env := getEnv("VAKYA_ENV", "local")
	cfgPath := getEnv("VAKYA_CONFIG", "config/local.yaml")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vakya API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend", cfg.Corpus.Backend),
		zap.String("corpus", cfg.Corpus.Name),
	)

	embedder := buildEmbedder(cfg.Embedding)

	corpus, err := vakya.New(cfg.Corpus.Name, cfg.Corpus.Target, cfg.Corpus.Backend,
		vakya.WithLogger(logger),
		vakya.WithEmbedder(embedder),
		vakya.WithBackendArgs(cfg.Corpus.Args),
	)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err))
	}
	defer corpus.Close()

	server := httpapi.NewServer(corpus, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder picks the embedding provider. Only vector backends use
// it; the redisearch backend ignores the embedder entirely.
func buildEmbedder(cfg config.EmbeddingConfig) vakya.Embedder {
	switch cfg.Provider {
	case "openai":
		return openaiEmb.New(openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	default:
		return hashing.New(cfg.Dimensions)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
