package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/preset-lut-mcp/internal/config"
	"github.com/ironsheep/preset-lut-mcp/internal/httpapi"
	"github.com/ironsheep/preset-lut-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("preset-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp()
		return
	case "", "stdio", "http":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printHelp()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is the MCP channel.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	server.Version = Version

	if cmd == "http" {
		if err := serveHTTP(cfg, logger); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Debug("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
	if err := server.New(cfg).Run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serveHTTP(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := httpapi.New(cfg, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", cfg.HTTPAddr, "version", Version)
	if err := e.Start(cfg.HTTPAddr); err != nil {
		if errors.Is(err, http.ErrServerClosed) || ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func printHelp() {
	fmt.Println("preset-mcp - MCP server that exports photo edits as presets and LUTs")
	fmt.Println()
	fmt.Println("Usage: preset-mcp [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none), stdio    Serve MCP over stdin/stdout")
	fmt.Println("  http             Serve downloads over HTTP (POST /api/export)")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PRESET_MCP_CONFIG           Optional config file (yaml, json, toml)")
	fmt.Println("  PRESET_MCP_LOG_LEVEL        debug, info, warn or error (default info)")
	fmt.Println("  PRESET_MCP_OUTPUT_DIR       Also write exports to this directory")
	fmt.Println("  PRESET_MCP_LUT_SIZE         Default cube grid size, 2-65 (default 17)")
	fmt.Println("  PRESET_MCP_TOOL_NAME        Generator name written into exports")
	fmt.Println("  PRESET_MCP_PREVIEW_MAX_DIM  Preview size limit in pixels (default 512)")
	fmt.Println("  PRESET_MCP_HTTP_ADDR        Listen address for http (default 127.0.0.1:8787)")
	fmt.Println()
	fmt.Println("Configure the stdio server in your MCP client (e.g., Claude Desktop).")
}
