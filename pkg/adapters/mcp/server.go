package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	CycleURI    = "bazi://cycle"
	ReadingsURI = "bazi://readings"
)

// ComputeArgs are the arguments of the compute_bazi tool.
type ComputeArgs struct {
	Birth     string   `json:"birth"`
	Gender    string   `json:"gender,omitempty"`
	Location  string   `json:"location,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AnalyzeArgs are the arguments of the analyze_pillars tool.
type AnalyzeArgs struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
	Input string `json:"input,omitempty"`
}

// Server wraps the BaZi engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.ReadingEngine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.ReadingEngine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("bazi-mcp", strings.TrimSpace(bazi.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mostly for in-process clients and tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compute_bazi
	computeTool := mcp.NewTool("compute_bazi",
		mcp.WithDescription("Derive a deterministic Four Pillars chart from a birth identifier and analyze it. "+
			"The chart is a digest of the text, not a calendar conversion."),
		mcp.WithString("birth", mcp.Required(), mcp.Description("Birth date/time text, used verbatim")),
		mcp.WithString("gender", mcp.Description("Echoed in history only; does not affect the chart")),
		mcp.WithString("location", mcp.Description("Accepted for compatibility; ignored")),
		mcp.WithNumber("longitude", mcp.Description("Accepted for compatibility; ignored")),
	)
	s.mcpServer.AddTool(computeTool, mcp.NewStructuredToolHandler(s.handleCompute))

	// TOOL: analyze_pillars
	analyzeTool := mcp.NewTool("analyze_pillars",
		mcp.WithDescription("Analyze explicit pillars, e.g. taken from an almanac. Each pillar is a stem+branch pair such as 甲子."),
		mcp.WithString("year", mcp.Required(), mcp.Description("Year pillar")),
		mcp.WithString("month", mcp.Required(), mcp.Description("Month pillar")),
		mcp.WithString("day", mcp.Required(), mcp.Description("Day pillar; its stem is the Day Master")),
		mcp.WithString("hour", mcp.Required(), mcp.Description("Hour pillar")),
		mcp.WithString("input", mcp.Description("Label echoed as input_birth (optional)")),
	)
	s.mcpServer.AddTool(analyzeTool, mcp.NewStructuredToolHandler(s.handleAnalyze))
}

func (s *Server) handleCompute(ctx context.Context, request mcp.CallToolRequest, args ComputeArgs) (domain.Reading, error) {
	rec, err := s.engine.Compute(ctx, domain.Request{
		Birth:     args.Birth,
		Gender:    args.Gender,
		Location:  args.Location,
		Longitude: args.Longitude,
	})
	if err != nil {
		slog.Warn("MCP compute_bazi: Input rejected", "error", err, "size", len(args.Birth))
		return domain.Reading{}, fmt.Errorf("input rejected: %w", err)
	}
	return rec.Reading, nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args AnalyzeArgs) (domain.Reading, error) {
	chart, err := domain.NewChart(args.Year, args.Month, args.Day, args.Hour)
	if err != nil {
		return domain.Reading{}, err
	}
	rec, err := s.engine.Analyze(ctx, args.Input, chart)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("input rejected: %w", err)
	}
	return rec.Reading, nil
}

func (s *Server) registerResources() {
	// EXPOSE: bazi://cycle
	s.mcpServer.AddResource(mcp.NewResource(CycleURI, "Sexagenary Cycle",
		mcp.WithResourceDescription("The 60 stem/branch pairs in cycle order with their elements"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(domain.CycleTable())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CycleURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: bazi://readings
	s.mcpServer.AddResource(mcp.NewResource(ReadingsURI, "Recent Readings",
		mcp.WithResourceDescription("The most recent recorded readings, newest first (requires a history backend)"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		records, err := s.engine.Recent(ctx, 20)
		if err != nil {
			return nil, fmt.Errorf("failed to list readings: %w", err)
		}
		if records == nil {
			records = []domain.ReadingRecord{}
		}
		jsonBytes, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ReadingsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
