// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property_listing_backend/internal/config"
)

func main() {
	backfillCmd := flag.NewFlagSet("backfill-profiles", flag.ExitOnError)
	timeout := backfillCmd.Duration("timeout", 10*time.Minute, "Maximum duration of the backfill run")

	if len(os.Args) > 1 && os.Args[1] == "backfill-profiles" {
		_ = backfillCmd.Parse(os.Args[2:])
		if !runBackfill(*timeout) {
			os.Exit(1)
		}
		return
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: Server failed to start or crashed: %v", err)
			return
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runBackfill creates missing profiles for every property owner once.
// It reports whether every owner now has a profile.
func runBackfill(timeout time.Duration) bool {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for backfill: %v", err)
	}

	job, cleanup, err := initializeBackfillJob(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize backfill job: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := job.RunOnce(ctx)
	if err != nil {
		log.Printf("ERROR: Profile backfill failed: %v", err)
		return false
	}
	log.Printf("INFO: Profile backfill finished: scanned=%d created=%d failed=%d", result.Scanned, result.Created, result.Failed)
	return result.Failed == 0
}
