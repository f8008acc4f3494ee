// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/ThinkInAIXYZ/go-mcp/transport"
	"github.com/go-logr/logr"

	"mcp-menu-gacha/internal/catalog"
	"mcp-menu-gacha/internal/config"
	"mcp-menu-gacha/internal/metrics"
)

// Version is reported in the MCP server info.
const Version = "1.0.0"

// errInvalidParams marks tool errors caused by the caller's arguments.
var errInvalidParams = errors.New("invalid parameters")

type toolHandler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// MCP SSE endpoints
const (
	ssePath     = "/sse"
	messagePath = "/message"
)

type GachaServer struct {
	server     *server.Server
	httpServer *http.Server
	source     catalog.Source
	recorder   *metrics.Recorder
	tools      map[string]toolHandler
	config     *config.Config
	logger     logr.Logger
}

// NewGachaServer serves the gacha tools two ways on one listener: MCP
// JSON-RPC over SSE at /sse and /message, and plain tool calls POSTed to /.
func NewGachaServer(cfg *config.Config, source catalog.Source, logger logr.Logger) (*GachaServer, error) {
	mcpTransport, sseHandler, err := transport.NewSSEServerTransportAndHandler(
		cfg.Server.PublicURL()+messagePath,
		transport.WithSSEServerTransportAndHandlerOptionLogger(newMCPLogger(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP transport: %w", err)
	}
	return newGachaServer(cfg, source, logger, mcpTransport, sseHandler)
}

// newGachaServer wires the server around mcpTransport. sseHandler is
// mounted when non-nil.
func newGachaServer(
	cfg *config.Config,
	source catalog.Source,
	logger logr.Logger,
	mcpTransport transport.ServerTransport,
	sseHandler *transport.SSEHandler,
) (*GachaServer, error) {
	gachaServer := &GachaServer{
		source:   source,
		recorder: metrics.NewRecorder(),
		config:   cfg,
		logger:   logger.WithName("server"),
	}

	mcpServer, err := server.NewServer(
		mcpTransport,
		server.WithServerInfo(protocol.Implementation{
			Name:    "menu-gacha",
			Version: Version,
		}),
		server.WithLogger(newMCPLogger(gachaServer.logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	gachaServer.server = mcpServer

	// Register tools
	if err := gachaServer.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	// Set up HTTP handlers
	mux := http.NewServeMux()
	if sseHandler != nil {
		mux.Handle(ssePath, sseHandler.HandleSSE())
		mux.Handle(messagePath, sseHandler.HandleMessage())
	}
	mux.Handle("/metrics", gachaServer.recorder.Handler())
	mux.HandleFunc("/", gachaServer.handleHTTP)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	gachaServer.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return gachaServer, nil
}

// Handler returns the HTTP handler serving tools and metrics.
func (s *GachaServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *GachaServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		return
	}

	// Simple HTTP-based MCP protocol handler
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Decode the MCP request
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errInvalidParams) {
			status = http.StatusBadRequest
			s.logger.V(1).Info("Rejected tool call", "tool", request.Name, "status", status, "reason", err.Error())
		} else {
			s.logger.Error(err, "Tool call failed", "tool", request.Name, "status", status)
		}
		http.Error(w, err.Error(), status)
		return
	}

	// Send response
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error(err, "Failed to encode response", "tool", request.Name)
	}
}

func (s *GachaServer) Start(ctx context.Context) error {
	go s.runMCP()

	s.logger.Info("Starting menu gacha server", "addr", s.httpServer.Addr, "sse", s.config.Server.PublicURL()+ssePath)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runMCP blocks until the MCP transport shuts down.
func (s *GachaServer) runMCP() {
	if err := s.server.Run(); err != nil {
		s.logger.Error(err, "MCP transport stopped")
	}
}

// Stop closes MCP sessions first so open SSE streams end, then the HTTP
// listener, then the menu source.
func (s *GachaServer) Stop(ctx context.Context) error {
	var errs []error
	if err := s.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down MCP server: %w", err))
	}
	if s.httpServer != nil {
		errs = append(errs, s.httpServer.Shutdown(ctx))
	}
	if closer, ok := s.source.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (s *GachaServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
