package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dentacare-id/backend/internal/config"
	"github.com/dentacare-id/backend/internal/handler"
	"github.com/dentacare-id/backend/internal/service/health"
	"github.com/dentacare-id/backend/internal/service/image"
	"github.com/dentacare-id/backend/internal/service/orchestrator"
	"github.com/dentacare-id/backend/internal/service/resource"
	"github.com/dentacare-id/backend/internal/service/session"
	"github.com/dentacare-id/backend/internal/upstream"
	"github.com/dentacare-id/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	upstreamClient := upstream.NewClient(
		cfg.AI.BaseURL,
		upstream.WithTimeouts(cfg.AI.ChatTimeout, cfg.AI.HealthTimeout, cfg.AI.ResourceTimeout),
	)

	sessionStore := session.NewStore(cfg.Session.TTL, cfg.Session.MaxSessions)
	imageStore := image.NewStore(cfg.Image.MaxImages)
	orchestratorSvc := orchestrator.NewService(sessionStore, imageStore, upstreamClient)
	retriever := resource.NewRetriever(upstreamClient)
	monitor := health.NewMonitor(upstreamClient)

	logger.Infof("analysis backend configured at %s", cfg.AI.BaseURL)

	router := handler.NewRouter(sessionStore, imageStore, orchestratorSvc, retriever, monitor)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Infof("DentaCare backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
