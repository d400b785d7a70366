// Package main runs the multi-game rules server: a JSON API over HTTP with
// optional SQLite persistence and optional per-seat move tokens.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chess-server/cli"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport/http"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Database maintenance subcommands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed seat secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		seats       = flag.Bool("seats", false, "Require per-seat tokens on moves")
		waitTimeout = flag.Duration("wait-timeout", service.WaitTimeout, "Maximum long-poll wait")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Seat secret
	var seatSecret []byte
	if *seats {
		seatSecret = loadSeatSecret(*dev)
	}

	// 3. Service, restoring stored games
	svc := service.New(service.Config{
		Store:       store,
		SeatSecret:  seatSecret,
		WaitTimeout: *waitTimeout,
	})
	if n, err := svc.Restore(); err != nil {
		log.Printf("Restore stopped early: %v", err)
	} else if n > 0 {
		log.Printf("Restored %d game(s) from storage", n)
	}

	// 4. HTTP
	app := http.NewFiberApp(svc, *dev)
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Chess rules API server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if *seats {
			log.Printf("Seat tokens: Enabled")
		} else {
			log.Printf("Seat tokens: Disabled (use -seats to enable)")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Releases waiters and closes storage after draining queued writes
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}

// loadSeatSecret prefers a fixed secret from the environment so tokens survive
// restarts, then the dev secret, then a random one
func loadSeatSecret(dev bool) []byte {
	if env := os.Getenv(service.SeatSecretEnv); env != "" {
		if len(env) < 32 {
			log.Fatalf("%s must be at least 32 characters", service.SeatSecretEnv)
		}
		log.Printf("Using seat secret from %s", service.SeatSecretEnv)
		return []byte(env)
	}

	if dev {
		log.Printf("Using fixed seat secret (dev mode)")
		return []byte("dev-secret-minimum-32-characters-long")
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("Failed to generate seat secret: %v", err)
	}
	log.Printf("Seat secret generated (tokens valid until restart)")
	return secret
}
