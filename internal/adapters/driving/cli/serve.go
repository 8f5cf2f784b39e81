package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quarry/internal/adapters/driving/mcp"
	"github.com/custodia-labs/quarry/internal/dispatch"
	"github.com/custodia-labs/quarry/internal/logger"
	"github.com/custodia-labs/quarry/internal/registry"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the configured tools.

By default the server communicates over stdio using JSON-RPC, for use
with Claude Desktop and other MCP-compatible AI assistants. Use --port
to serve HTTP instead; HTTP mode also exposes GET /health.

The backend is selected by the server.backend config key and connected
once at startup. With --watch, changes to plugin manifests are logged
as restart hints; a running server never reloads plugins.

Examples:
  # Stdio mode (default)
  quarry serve

  # HTTP mode
  quarry serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (0 = use stdio)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "log restart hints when plugin manifests change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireWired(); err != nil {
		return err
	}
	ctx := cmd.Context()

	backend, err := backendRegistry.Resolve(cfg.Server.Backend)
	if err != nil {
		return err
	}
	if err := backend.Connect(ctx); err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	dispatcher, err := dispatch.New(toolRegistry, backend, cfg.Server.EnabledTools)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(dispatcher)
	if err != nil {
		return err
	}

	if serveWatch {
		go func() {
			err := registry.Watch(ctx, func(path string) {
				logger.Warn("Plugin manifest changed: %s (restart to apply)", path)
			}, allPluginDirs()...)
			if err != nil {
				logger.Warn("Plugin watcher stopped: %v", err)
			}
		}()
	}

	if servePort > 0 {
		addr := fmt.Sprintf(":%d", servePort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
