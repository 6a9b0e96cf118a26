package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notebox/internal/config"
	"notebox/internal/db"
	"notebox/internal/httplog"
	mcpserver "notebox/internal/mcp"
	"notebox/internal/notes"
	"notebox/internal/remote"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// Config
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Context for startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("opening note storage", "backend", cfg.Storage.Backend)
	durable, closeStore, err := db.OpenStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	// Wire dependencies
	var fetcher notes.Fetcher
	if cfg.Remote.URL != "" {
		fetcher = remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout)
	}
	noteStore := notes.NewStore(durable, nil)
	noteSvc := notes.NewService(noteStore, fetcher, logger)
	if _, err := noteSvc.Load(ctx); err != nil {
		logger.Error("failed to load notes; starting empty", "error", err)
	}
	noteCtrl := notes.NewController(noteSvc, logger)
	noteHandler := notes.NewHandler(noteSvc, noteCtrl, logger)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(noteSvc)

	// HTTP router
	mux := http.NewServeMux()
	noteHandler.Register(mux)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httplog.Middleware(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		if err := closeStore(shutdownCtx); err != nil {
			logger.Error("storage close error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port)
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"api", "http://localhost:"+cfg.Port+"/api",
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("server stopped")
}
