package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quarry/internal/dispatch"
	"github.com/custodia-labs/quarry/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for Quarry.
type Server struct {
	dispatcher *dispatch.Dispatcher
	server     *mcp.Server
}

// NewServer creates a new MCP server exposing the dispatcher's tools.
func NewServer(dispatcher *dispatch.Dispatcher) (*Server, error) {
	if dispatcher == nil {
		return nil, ErrMissingDispatcher
	}

	impl := &mcp.Implementation{
		Name:    "quarry",
		Version: Version,
	}

	s := &Server{
		dispatcher: dispatcher,
		server:     mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers every enabled tool with the MCP server. Argument
// validation and routing stay in the dispatcher; the handlers only translate
// between MCP messages and dispatch calls.
func (s *Server) registerTools() {
	for _, tool := range s.dispatcher.Tools() {
		name := tool.Name()
		s.server.AddTool(&mcp.Tool{
			Name:        name,
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		}, s.handlerFor(name))
		logger.Info("Registered MCP tool: %s", name)
	}
}

// handlerFor builds the MCP handler for one named tool.
func (s *Server) handlerFor(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := coerceArguments(req.Params.Arguments)
		if err != nil {
			return errorResult(fmt.Errorf("decoding arguments: %w", err), KindInvalidArguments), nil
		}

		result, err := s.dispatcher.Dispatch(ctx, name, args)
		if err != nil {
			return errorResult(err, errorKind(err)), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return errorResult(fmt.Errorf("encoding result: %w", err), KindInternal), nil
		}

		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
			StructuredContent: result,
		}, nil
	}
}

// coerceArguments normalises the SDK's argument payload to a map.
func coerceArguments(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case json.RawMessage:
		if len(v) == 0 {
			return nil, nil
		}
		var args map[string]any
		if err := json.Unmarshal(v, &args); err != nil {
			return nil, err
		}
		return args, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		var args map[string]any
		if err := json.Unmarshal(v, &args); err != nil {
			return nil, err
		}
		return args, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var args map[string]any
		if err := json.Unmarshal(data, &args); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// errorResult renders a dispatch failure as a tool error with its kind, so
// clients can distinguish bad requests from backend trouble.
func errorResult(err error, kind string) *mcp.CallToolResult {
	payload := map[string]any{
		"error": err.Error(),
		"kind":  kind,
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		data = []byte(`{"error":"internal error","kind":"internal_error"}`)
	}
	return &mcp.CallToolResult{
		IsError:           true,
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: payload,
	}
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address, with a
// /health endpoint for container health checks.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("Starting MCP server on %s", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
