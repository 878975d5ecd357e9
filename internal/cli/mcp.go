package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/bazi/internal/config"
	"github.com/aretw0/bazi/pkg/adapters/mcp"
)

// RunMCP serves the engine as MCP tools over the configured transport.
func RunMCP(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	engine, cleanup, err := NewEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := mcp.NewServer(engine)

	switch strings.ToLower(cfg.MCP.Transport) {
	case config.TransportStdio:
		// Stdout carries JSON-RPC; logs stay on Stderr.
		logger.Info("Starting BaZi MCP Server (Stdio)...")
		return srv.ServeStdio()
	case config.TransportSSE:
		logger.Info("Starting BaZi MCP Server (SSE)", "port", cfg.MCP.Port)
		return srv.ServeSSE(ctx, cfg.MCP.Port)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", cfg.MCP.Transport)
	}
}
