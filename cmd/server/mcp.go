package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/observatorio-cat/observatorio/pkg/api"
)

// cmdMCP serves the dataset tools over MCP stdio, for use by agent hosts.
// Logs go to stderr so stdout stays clean for the protocol.
func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := loadConfig(*cfgPath, logger)
	svc, loadLog := buildService(cfg, logger)

	srv := server.NewMCPServer("observatorio", "1.0.0",
		server.WithToolCapabilities(false),
	)
	api.RegisterMCPTools(srv, svc)

	err := server.ServeStdio(srv)
	if loadLog != nil {
		loadLog.Close()
	}
	if err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
