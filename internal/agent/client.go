// Package agent implements the interactive client for the wizard tool
// server: an MCP client over SSE or streamable HTTP, output formatting, and
// a REPL for exploring documentation and working with configurations.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// TransportType defines the transport type for MCP connections
type TransportType string

const (
	TransportSSE            TransportType = "sse"
	TransportStreamableHTTP TransportType = "streamable-http"
)

// Client is an MCP client for the wizard tool server with a cached tool list.
type Client struct {
	endpoint  string
	transport TransportType
	logger    *Logger

	client    client.MCPClient
	toolCache []mcp.Tool
	mu        sync.RWMutex

	timeout          time.Duration
	NotificationChan chan mcp.JSONRPCNotification
}

// NewClient creates a new client with the specified transport.
func NewClient(endpoint string, logger *Logger, transport TransportType) *Client {
	return &Client{
		endpoint:         endpoint,
		transport:        transport,
		logger:           logger,
		toolCache:        []mcp.Tool{},
		timeout:          30 * time.Second,
		NotificationChan: make(chan mcp.JSONRPCNotification, 10),
	}
}

// Connect establishes the transport, performs the protocol handshake, and
// loads the initial tool list.
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to tool server at %s using %s transport...", c.endpoint, c.transport)

	mcpClient, err := c.createAndConnectClient(ctx)
	if err != nil {
		return err
	}
	c.client = mcpClient

	if err := c.initialize(ctx); err != nil {
		c.client.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := c.RefreshTools(ctx); err != nil {
		c.client.Close()
		return fmt.Errorf("initial tool listing failed: %w", err)
	}
	return nil
}

// Close shuts down the transport.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// HandleNotification refreshes the tool cache on list-change notifications.
func (c *Client) HandleNotification(ctx context.Context, notification mcp.JSONRPCNotification) error {
	c.logger.Notification(notification.Method, notification.Params)

	if notification.Method == "notifications/tools/list_changed" {
		return c.RefreshTools(ctx)
	}
	return nil
}

func (c *Client) createAndConnectClient(ctx context.Context) (client.MCPClient, error) {
	var mcpClient client.MCPClient

	switch c.transport {
	case TransportSSE:
		sseClient, err := client.NewSSEMCPClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		if err := sseClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start SSE client: %w", err)
		}
		sseClient.OnNotification(func(notification mcp.JSONRPCNotification) {
			select {
			case c.NotificationChan <- notification:
			case <-ctx.Done():
			}
		})
		mcpClient = sseClient

	case TransportStreamableHTTP:
		httpClient, err := client.NewStreamableHttpClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
		}
		if err := httpClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
		}
		httpClient.OnNotification(func(notification mcp.JSONRPCNotification) {
			select {
			case c.NotificationChan <- notification:
			case <-ctx.Done():
			}
		})
		mcpClient = httpClient

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", c.transport)
	}

	return mcpClient, nil
}

// initialize performs the MCP protocol handshake.
func (c *Client) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "sfc-wizard-agent",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	c.logger.Request("initialize", req.Params)

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Initialize(timeoutCtx, req)
	if err != nil {
		c.logger.Error("Initialize failed: %v", err)
		return err
	}

	c.logger.Response("initialize", result)
	return nil
}

// RefreshTools reloads the tool cache from the server.
func (c *Client) RefreshTools(ctx context.Context) error {
	req := mcp.ListToolsRequest{}
	c.logger.Request("tools/list", req.Params)

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.ListTools(timeoutCtx, req)
	if err != nil {
		c.logger.Error("ListTools failed: %v", err)
		return err
	}
	c.logger.Response("tools/list", result)

	c.mu.Lock()
	c.toolCache = result.Tools
	c.mu.Unlock()
	return nil
}

// Tools returns the cached tool list.
func (c *Client) Tools() []mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tools := make([]mcp.Tool, len(c.toolCache))
	copy(tools, c.toolCache)
	return tools
}

// CallTool executes a tool and returns the raw result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      name,
			Arguments: args,
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return result, nil
}

// CallToolSimple executes a tool and returns the first text content. Error
// results become Go errors.
func (c *Client) CallToolSimple(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	result, err := c.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}

	var output []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			output = append(output, textContent.Text)
		}
	}

	if result.IsError {
		return "", fmt.Errorf("tool error: %v", output)
	}
	if len(output) == 0 {
		return "", nil
	}
	return output[0], nil
}

// CallToolJSON executes a tool and parses the text result as JSON. Non-JSON
// output is returned as the raw string.
func (c *Client) CallToolJSON(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	textResult, err := c.CallToolSimple(ctx, name, args)
	if err != nil {
		return nil, err
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(textResult), &parsed); err != nil {
		return textResult, nil
	}
	return parsed, nil
}
