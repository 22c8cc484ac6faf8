package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rollcall/internal/api"
	"rollcall/internal/config"
	"rollcall/internal/policy"
	"rollcall/internal/store"

	"github.com/joho/godotenv"
)

var (
	// Version information (set via ldflags)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", envOr("ROLLCALL_CONFIG", "config.yaml"), "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Rollcall Attendance Server\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	// A .env file is optional; deployments may set variables directly
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	log.Printf("Starting Rollcall %s (commit: %s)", Version, Commit)

	// Load configuration
	log.Printf("Loading configuration from %s", *configPath)
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize daily log store
	log.Printf("Using data directory: %s (prefix: %s)", cfg.Storage.Dir, cfg.Storage.CSVPrefix)
	st, err := store.New(cfg.Storage.Dir, cfg.Storage.CSVPrefix)
	if err != nil {
		log.Fatalf("Failed to initialize daily log store: %v", err)
	}

	// Initialize submission validator
	validator := policy.NewValidator(cfg, st)
	if cfg.Geofence.Enabled {
		log.Printf("Geofencing enabled: course at (%f, %f), radius %.0fm",
			*cfg.Geofence.CourseLat, *cfg.Geofence.CourseLon, cfg.Geofence.AllowedRadiusMeters)
	} else {
		log.Printf("Geofencing disabled")
	}

	// Create HTTP server
	server := api.NewServer(cfg, st, validator)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.Server.ListenAddr)
		if err := server.Run(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Rollcall is running")
	log.Printf("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	<-quit
	log.Printf("Server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
