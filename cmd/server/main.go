package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gabya-ai/Smart-Intro/api"
	dbfs "github.com/gabya-ai/Smart-Intro/db"
	"github.com/gabya-ai/Smart-Intro/internal/analytics"
	"github.com/gabya-ai/Smart-Intro/internal/config"
	"github.com/gabya-ai/Smart-Intro/internal/db"
	"github.com/gabya-ai/Smart-Intro/internal/letters"
	"github.com/gabya-ai/Smart-Intro/internal/repository/sqlite"
	"github.com/gabya-ai/Smart-Intro/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)
	letters.SetLogger(logger)
	analytics.SetLogger(logger)

	log.Printf("Starting genie-hi server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	// Apply migrations and seed files so the binary is self-contained
	if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	genClient, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create generation client: %v", err)
	}

	handler, err := api.SetupRoutes(ctx, cfg, version, buildTime, database, genClient)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// one-time write-path smoke test
	if cfg.StartupHeartbeat {
		rec := analytics.NewUnvalidatedRecorder(sqlite.New(database))
		rec.Record(ctx, "system", "", "", "heartbeat", map[string]any{"source": "startup"})
	}

	// Create HTTP server
	// write timeout must cover a full synchronous generation call
	writeTimeout := cfg.APITimeout
	if t := cfg.EngineConfig.Timeout + 10*time.Second; t > writeTimeout {
		writeTimeout = t
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := genClient.Close(); err != nil {
		log.Printf("Error closing generation client: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
