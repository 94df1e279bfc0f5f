// Package mcpserver exposes the framework toolkit as an MCP tool server:
// documentation retrieval, configuration validation, template generation,
// stored configurations, and local test runs.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"sfcwizard/internal/config"
	"sfcwizard/internal/docs"
	"sfcwizard/internal/knowledge"
	"sfcwizard/internal/repo"
	"sfcwizard/internal/runner"
	"sfcwizard/internal/template"
	"sfcwizard/internal/validator"
	"sfcwizard/pkg/logging"
)

// Server wires the toolkit components together and serves them over the
// configured MCP transport.
type Server struct {
	cfg           config.WizardConfig
	workspaceRoot string

	kb        *knowledge.Base
	index     *docs.Index
	validator *validator.Validator
	generator *template.Generator
	repo      *repo.Manager
	store     *config.Store
	runner    *runner.Runner

	mu                   sync.Mutex
	server               *server.MCPServer
	sseServer            *server.SSEServer
	stdioServer          *server.StdioServer
	streamableHTTPServer *server.StreamableHTTPServer
	ctx                  context.Context
	cancelFunc           context.CancelFunc
}

// NewServer creates a server from the application configuration. The
// workspace root is the directory stored configurations and runs live under.
func NewServer(cfg config.WizardConfig, workspaceRoot string) *Server {
	kb := knowledge.New()
	docsPath := cfg.DocsPath(workspaceRoot)

	return &Server{
		cfg:           cfg,
		workspaceRoot: workspaceRoot,
		kb:            kb,
		index:         docs.NewIndex(docsPath),
		validator:     validator.New(kb, validator.Policy{StrictTypes: cfg.Validation.StrictTypes}),
		generator:     template.New(kb),
		repo:          repo.NewManager(cfg.Docs.RepoURL, filepath.Join(workspaceRoot, config.WorkspaceDirName, "sfc-repo")),
		store:         config.NewStore(workspaceRoot),
		runner: runner.New(runner.Options{
			WorkspaceRoot: workspaceRoot,
			Binary:        cfg.Runner.JavaBinary,
			DeploymentDir: cfg.Runner.DeploymentDir,
			ModulesDir:    cfg.Runner.ModulesDir,
			TailLines:     cfg.Runner.TailLines,
		}),
	}
}

// Start starts the server on the configured transport. HTTP transports serve
// in the background; stdio listens on the process streams. The method returns
// once the transport is up, Stop shuts it down.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	mcpServer := server.NewMCPServer(
		"sfc-wizard",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	s.server = mcpServer
	s.mu.Unlock()

	s.registerTools()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	switch s.cfg.Server.Transport {
	case config.TransportSSE:
		logging.Info("mcpserver", "Starting MCP server with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
		s.sseServer = server.NewSSEServer(
			s.server,
			server.WithBaseURL(baseURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("mcpserver", err, "SSE server error")
			}
		}()

	case config.TransportStreamableHTTP:
		logging.Info("mcpserver", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.server)
		streamableServer := s.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("mcpserver", err, "Streamable HTTP server error")
			}
		}()

	case config.TransportStdio:
		fallthrough
	default:
		logging.Info("mcpserver", "Starting MCP server with stdio transport")
		s.stdioServer = server.NewStdioServer(s.server)
		stdioServer := s.stdioServer
		go func() {
			if err := stdioServer.Listen(s.ctx, os.Stdin, os.Stdout); err != nil {
				logging.Error("mcpserver", err, "Stdio server error")
			}
		}()
	}

	return nil
}

// Stop shuts down the transport and terminates any active run.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	if err := s.runner.Stop(); err != nil {
		logging.Warn("mcpserver", "Failed to stop active run: %v", err)
	}

	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		s.sseServer = nil
	}
	if s.streamableHTTPServer != nil {
		if err := s.streamableHTTPServer.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to shut down streamable HTTP server: %w", err)
		}
		s.streamableHTTPServer = nil
	}

	s.server = nil
	return nil
}
