package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"kirokumd/api/internal/app"
	"kirokumd/api/internal/config"
	"kirokumd/api/internal/session"
	"kirokumd/api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	dataStore, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store setup failed: %v", err)
	}
	defer cleanup()

	sessions, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer sessions.Close()

	service := app.New(cfg, dataStore, sessions)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Kiroku API listening on %s (backend=%s)", cfg.Addr, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openStore builds the configured backend. The returned cleanup closes
// whatever connections it opened and is safe to call on all paths.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StoreBackend)) {
	case "postgres", "":
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewPostgresStore(db), func() { db.Close() }, nil
	case "firestore":
		var opts []option.ClientOption
		if cfg.FirestoreCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
		}
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store.NewFirestoreStore(client), func() { client.Close() }, nil
	case "memory":
		log.Printf("WARNING: memory backend keeps no data across restarts")
		return store.NewMemoryStore(), func() {}, nil
	default:
		log.Fatalf("unknown STORE_BACKEND %q (want postgres, firestore, or memory)", cfg.StoreBackend)
		return nil, nil, nil
	}
}
