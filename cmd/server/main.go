package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/observatorio-cat/observatorio/pkg/api"
	"github.com/observatorio-cat/observatorio/pkg/catalog"
	"github.com/observatorio-cat/observatorio/pkg/geo"
	"github.com/observatorio-cat/observatorio/pkg/loader"
	"github.com/observatorio-cat/observatorio/pkg/roles"
)

type config struct {
	Addr string `yaml:"addr"`

	// Source points at a CSV file, or a directory of CSVs when Dir is true.
	Source string `yaml:"source"`
	Dir    bool   `yaml:"dir"`

	Delimiter string `yaml:"delimiter"`
	Decimal   string `yaml:"decimal"`
	SkipRows  int    `yaml:"skip_rows"`
	Encoding  string `yaml:"encoding"`

	// Columns pins column names per role; empty means detect from headers.
	Columns map[string]string `yaml:"columns"`

	// Sidecar is the editable municipality mapping file. Empty keeps the
	// built-in mapping only.
	Sidecar string `yaml:"sidecar"`

	// Catalog is the SQLite load history database. Empty disables it.
	Catalog string `yaml:"catalog"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: observatorio <command>\n\nCommands:\n  serve     Start the HTTP server\n  inspect   Load the source once and print a report\n  mcp       Serve MCP tools over stdio\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)
	svc, loadLog := buildService(cfg, logger)

	// Warm the cache so startup fails loudly on a broken source.
	if ds, err := svc.Dataset(); err != nil {
		logger.Error("initial load failed", "error", err)
		os.Exit(1)
	} else {
		logger.Info("dataset loaded", "rows", ds.Table.NumRows(), "cols", ds.Table.NumCols(),
			"dates_parsed", ds.Diag.DatesParsed, "uf_resolved", ds.Diag.UFResolved)
	}

	router := api.NewRouter(svc)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	// SIGHUP: invalidate the dataset cache.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, invalidating dataset cache")
			svc.Reload()
		}
	}()

	go func() {
		logger.Info("observatorio listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
	if loadLog != nil {
		loadLog.Close()
	}
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:   ":8430",
		Source: "data",
		Dir:    true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

// buildService wires the service from config. The returned load log (nil
// when no catalog is configured) is the caller's to close on shutdown.
func buildService(cfg config, logger *slog.Logger) (*api.Service, *catalog.LoadLog) {
	opts, err := loaderOptions(cfg)
	if err != nil {
		logger.Error("invalid load options", "error", err)
		os.Exit(1)
	}

	munic, err := geo.OpenMunicipios(cfg.Sidecar, logger)
	if err != nil {
		logger.Error("municipality mapping unavailable", "error", err)
		os.Exit(1)
	}

	var loadLog *catalog.LoadLog
	if cfg.Catalog != "" {
		loadLog, err = catalog.Open(cfg.Catalog)
		if err != nil {
			logger.Error("open load catalog", "error", err)
			os.Exit(1)
		}
	}

	source := api.Source{
		Path:    cfg.Source,
		Dir:     cfg.Dir,
		Options: opts,
		Fixed:   fixedColumns(cfg.Columns),
	}
	return api.NewService(source, munic, loadLog, logger), loadLog
}

// loaderOptions translates the config surface into loader options. The
// delimiter accepts the keywords "auto" (or empty) and "tab" besides a
// literal single character.
func loaderOptions(cfg config) (loader.Options, error) {
	var opts loader.Options
	switch cfg.Delimiter {
	case "", "auto":
	case "tab":
		opts.Delimiter = '\t'
	default:
		r := []rune(cfg.Delimiter)
		if len(r) != 1 {
			return opts, fmt.Errorf("invalid delimiter %q: use auto, tab, or a single character", cfg.Delimiter)
		}
		opts.Delimiter = r[0]
	}
	if cfg.Decimal != "" {
		r := []rune(cfg.Decimal)
		if len(r) != 1 {
			return opts, fmt.Errorf("invalid decimal separator %q", cfg.Decimal)
		}
		opts.Decimal = r[0]
	}
	opts.SkipRows = cfg.SkipRows
	if cfg.Encoding != "" {
		opts.Encodings = loader.Reorder(cfg.Encoding)
	}
	return opts, nil
}

func fixedColumns(cols map[string]string) map[roles.Role]string {
	if len(cols) == 0 {
		return nil
	}
	fixed := make(map[roles.Role]string, len(cols))
	for k, v := range cols {
		fixed[roles.Role(k)] = v
	}
	return fixed
}

// fixedResolver returns the hard-coded strategy for configured columns, or
// nil so the caller falls back to dynamic detection.
func fixedResolver(cols map[string]string) roles.Resolver {
	fixed := fixedColumns(cols)
	if fixed == nil {
		return nil
	}
	return roles.Fixed{Columns: fixed}
}
