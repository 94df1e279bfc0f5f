package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sfcwizard/internal/config"
	"sfcwizard/internal/mcpserver"
	"sfcwizard/pkg/logging"
)

var (
	serveTransport  string
	servePort       int
	serveHost       string
	serveConfigPath string
	serveDocsPath   string
	serveStrict     bool
	serveWorkspace  string
	serveDebug      bool
)

// serveCmd starts the MCP tool server. This is the main command of
// sfc-wizard: it exposes validation, documentation retrieval, template
// generation, configuration storage, and local runs as MCP tools.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sfc-wizard MCP tool server",
	Long: `Starts the MCP server exposing the sfc-wizard tools.

Transport options:
  stdio (default):  serve over standard input/output, for direct use by an
                    AI assistant process
  sse:              Server-Sent Events over HTTP
  streamable-http:  streamable HTTP transport

Configuration is loaded from config.yaml in the configuration directory;
flags override the loaded values. The documentation corpus is a checkout of
the SFC repository inside the workspace and can be refreshed with the
update_docs tool.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	// Logs go to stderr so the stdio transport keeps stdout clean.
	logging.Init(level, os.Stderr)

	cfg, err := config.LoadConfig(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport = serveTransport
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("docs-path") {
		cfg.Docs.Path = serveDocsPath
	}
	if cmd.Flags().Changed("strict") {
		cfg.Validation.StrictTypes = serveStrict
	}

	switch cfg.Server.Transport {
	case config.TransportStdio, config.TransportSSE, config.TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport: %s (supported: stdio, sse, streamable-http)", cfg.Server.Transport)
	}

	workspace := serveWorkspace
	if workspace == "" {
		workspace, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	srv := mcpserver.NewServer(cfg, workspace)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logging.Info("serve", "Received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", config.TransportStdio, "Transport to use (stdio, sse, streamable-http)")
	serveCmd.Flags().IntVar(&servePort, "port", 8090, "Port to listen on (sse and streamable-http)")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind (sse and streamable-http)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	serveCmd.Flags().StringVar(&serveDocsPath, "docs-path", "", "Documentation root (default: SFC checkout inside the workspace)")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "Treat unregistered adapter/target types as validation errors")
	serveCmd.Flags().StringVar(&serveWorkspace, "workspace", "", "Workspace root for runs and stored configurations (default: current directory)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
