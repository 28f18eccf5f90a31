package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/snipvault/snipvault/internal/adapters/mcp"
	"github.com/snipvault/snipvault/internal/bootstrap"
	"github.com/snipvault/snipvault/internal/config"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stdout carries the MCP protocol; every log line goes to stderr.
	app, err := bootstrap.NewStdio(ctx, "mcp", cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(app.AnalyzeUC, app.LibraryUC, app.OrganizeUC)

	slog.Info("mcp_listening", "transport", "stdio")
	if err := srv.Serve(); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
