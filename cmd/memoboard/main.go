package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/memoboard/internal/database"
	"github.com/dukerupert/memoboard/internal/logging"
	"github.com/dukerupert/memoboard/internal/push"
	"github.com/dukerupert/memoboard/internal/scheduler"
	"github.com/dukerupert/memoboard/internal/server"
	"github.com/dukerupert/memoboard/internal/store"
)

func main() {
	port := os.Getenv("MEMOBOARD_PORT")
	if port == "" {
		port = "7707"
	}

	dbPath := os.Getenv("MEMOBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "memoboard.db"
	}

	logger := logging.Setup(os.Getenv("MEMOBOARD_LOG_LEVEL"), os.Getenv("MEMOBOARD_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	pushCfg, err := resolvePushConfig(db)
	if err != nil {
		log.Fatalf("failed to configure push: %v", err)
	}

	srv := server.New(db, pushCfg, logger)

	if _, err := srv.GroupService().GetOrCreateInboxID(); err != nil {
		log.Fatalf("failed to seed inbox group: %v", err)
	}

	worker := scheduler.NewWorker(srv.AlarmService(), srv.TrashService(), logger.With("component", "scheduler"))
	worker.Start(context.Background())

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Memoboard running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
	worker.Stop()
}

// resolvePushConfig loads VAPID keys from the environment, falling back to
// keys stored in settings, generating and persisting a pair on first run.
func resolvePushConfig(db *sql.DB) (push.Config, error) {
	cfg := push.Config{
		VAPIDPublicKey:  os.Getenv("MEMOBOARD_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("MEMOBOARD_VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("MEMOBOARD_VAPID_SUBSCRIBER"),
	}
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		return cfg, nil
	}

	settings := store.NewSettingsStore(db)
	pub, pubOK, err := settings.Get("vapid_public_key")
	if err != nil {
		return cfg, err
	}
	priv, privOK, err := settings.Get("vapid_private_key")
	if err != nil {
		return cfg, err
	}
	if pubOK && privOK {
		cfg.VAPIDPublicKey = pub
		cfg.VAPIDPrivateKey = priv
		return cfg, nil
	}

	pub, priv, err = push.GenerateVAPIDKeys()
	if err != nil {
		return cfg, err
	}
	if err := settings.Set("vapid_public_key", pub); err != nil {
		return cfg, err
	}
	if err := settings.Set("vapid_private_key", priv); err != nil {
		return cfg, err
	}
	cfg.VAPIDPublicKey = pub
	cfg.VAPIDPrivateKey = priv
	return cfg, nil
}
