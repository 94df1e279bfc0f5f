package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sfcwizard/internal/agent"
)

var (
	agentEndpoint  string
	agentTransport string
	agentTimeout   time.Duration
	agentVerbose   bool
	agentNoColor   bool
	agentJSONRPC   bool
	agentREPL      bool
)

// agentCmd connects to a running sfc-wizard server as an MCP client.
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "MCP client for the sfc-wizard tool server",
	Long: `The agent command connects to the sfc-wizard MCP server as a client,
logs the JSON-RPC communication, and tracks dynamic tool updates.

It can run in two modes:
1. Normal mode (default): connects, lists tools, and waits for notifications
2. REPL mode (--repl): an interactive shell for querying documentation,
   validating and generating configurations, and managing local runs

Transport options:
- streamable-http (default): HTTP-based transport with notification support
- sse: Server-Sent Events transport

Note: the server must be running (use 'sfc-wizard serve') with an HTTP
transport before using this command.`,
	RunE: runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := agent.NewLogger(agentVerbose, !agentNoColor, agentJSONRPC)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	var transport agent.TransportType
	switch agentTransport {
	case "sse":
		transport = agent.TransportSSE
	case "streamable-http":
		transport = agent.TransportStreamableHTTP
	default:
		return fmt.Errorf("unsupported transport: %s (supported: streamable-http, sse)", agentTransport)
	}

	client := agent.NewClient(agentEndpoint, logger, transport)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", agentEndpoint, err)
	}
	defer client.Close()

	if agentREPL {
		repl := agent.NewREPL(client, logger)
		if err := repl.Run(ctx); err != nil {
			return fmt.Errorf("REPL error: %w", err)
		}
		return nil
	}

	// Normal mode: print the tool list, then wait for notifications until
	// the timeout or an interrupt.
	formatters := agent.NewFormatters()
	logger.Output("%s", formatters.FormatToolsTable(client.Tools()))

	waitCtx, waitCancel := context.WithTimeout(ctx, agentTimeout)
	defer waitCancel()

	for {
		select {
		case notification := <-client.NotificationChan:
			if err := client.HandleNotification(waitCtx, notification); err != nil {
				logger.Error("Failed to handle notification: %v", err)
			}
		case <-waitCtx.Done():
			return nil
		}
	}
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.Flags().StringVar(&agentEndpoint, "endpoint", "http://localhost:8090/mcp", "Server MCP endpoint URL")
	agentCmd.Flags().StringVar(&agentTransport, "transport", string(agent.TransportStreamableHTTP), "Transport to use (streamable-http, sse)")
	agentCmd.Flags().DurationVar(&agentTimeout, "timeout", 5*time.Minute, "Timeout for waiting for notifications")
	agentCmd.Flags().BoolVar(&agentVerbose, "verbose", false, "Enable verbose logging")
	agentCmd.Flags().BoolVar(&agentNoColor, "no-color", false, "Disable colored output")
	agentCmd.Flags().BoolVar(&agentJSONRPC, "json-rpc", false, "Enable full JSON-RPC message logging")
	agentCmd.Flags().BoolVar(&agentREPL, "repl", false, "Start interactive REPL mode")
}
