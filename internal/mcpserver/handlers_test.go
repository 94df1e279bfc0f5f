package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfcwizard/internal/config"
)

// newTestServer builds a server over a temp workspace with a small corpus.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	workspace := t.TempDir()

	docsRoot := filepath.Join(workspace, "docs")
	files := map[string]string{
		"core/configuration.md": "# Configuration\n\n```json\n{\"AWSVersion\": \"2022-04-02\"}\n```\n",
		"adapters/opcua.md":     "# OPC UA\n\nPolling adapter.\n",
		"targets/aws-s3.md":     "# AWS S3\n\n```json\n{\"TargetType\": \"AWS-S3\"}\n```\n",
	}
	for path, content := range files {
		full := filepath.Join(docsRoot, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	cfg := config.GetDefaultConfig()
	cfg.Docs.Path = docsRoot
	return NewServer(cfg, workspace)
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return textContent.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	return decoded
}

func TestHandleWhatIs(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleWhatIs(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Shop Floor Connectivity")
}

func TestHandleListDocs(t *testing.T) {
	s := newTestServer(t)

	t.Run("all categories", func(t *testing.T) {
		result, err := s.handleListDocs(context.Background(), newRequest(nil))
		require.NoError(t, err)

		decoded := resultJSON(t, result)
		assert.Contains(t, decoded, "core")
		assert.Contains(t, decoded, "adapter")
		assert.Contains(t, decoded, "target")
	})

	t.Run("single category", func(t *testing.T) {
		result, err := s.handleListDocs(context.Background(), newRequest(map[string]interface{}{
			"category": "adapter",
		}))
		require.NoError(t, err)

		decoded := resultJSON(t, result)
		assert.Equal(t, []interface{}{"opcua"}, decoded["adapter"])
	})

	t.Run("invalid category", func(t *testing.T) {
		result, err := s.handleListDocs(context.Background(), newRequest(map[string]interface{}{
			"category": "bogus",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleGetDoc(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetDoc(context.Background(), newRequest(map[string]interface{}{
		"category": "core",
		"name":     "configuration",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "# Configuration")

	result, err = s.handleGetDoc(context.Background(), newRequest(map[string]interface{}{
		"category": "core",
		"name":     "missing",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")
}

func TestHandleQueryDocs(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleQueryDocs(context.Background(), newRequest(map[string]interface{}{
		"pattern":         "config*",
		"include_content": true,
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	assert.Equal(t, float64(1), decoded["count"])
	doc := decoded["docs"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "configuration", doc["name"])
	assert.Contains(t, doc["content"], "# Configuration")
}

func TestHandleSearchContent(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchContent(context.Background(), newRequest(map[string]interface{}{
		"term": "polling",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	assert.Equal(t, float64(1), decoded["count"])
	match := decoded["matches"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "opcua", match["name"])
}

func TestHandleExtractExamples(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleExtractExamples(context.Background(), newRequest(map[string]interface{}{
		"pattern": "*",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	assert.Equal(t, float64(2), decoded["count"])
}

func TestHandleConfigExamples(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleConfigExamples(context.Background(), newRequest(map[string]interface{}{
		"name": "s3",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	assert.Equal(t, float64(1), decoded["count"])
}

func TestHandleCreateTemplate(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleCreateTemplate(context.Background(), newRequest(map[string]interface{}{
		"protocol": "OPCUA",
		"target":   "AWS-S3",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	decoded := resultJSON(t, result)
	assert.Equal(t, "2022-04-02", decoded["AWSVersion"])
	assert.Contains(t, decoded["Sources"], "OPCUA-SOURCE")

	result, err = s.handleCreateTemplate(context.Background(), newRequest(map[string]interface{}{
		"protocol": "PROFINET",
		"target":   "AWS-S3",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleValidateConfig(t *testing.T) {
	s := newTestServer(t)

	t.Run("invalid document reports findings", func(t *testing.T) {
		result, err := s.handleValidateConfig(context.Background(), newRequest(map[string]interface{}{
			"config": `{"AWSVersion": "2022-04-02"}`,
		}))
		require.NoError(t, err)
		assert.False(t, result.IsError)

		decoded := resultJSON(t, result)
		assert.Equal(t, false, decoded["valid"])
		assert.NotEmpty(t, decoded["errors"])
	})

	t.Run("malformed JSON is a tool error", func(t *testing.T) {
		result, err := s.handleValidateConfig(context.Background(), newRequest(map[string]interface{}{
			"config": "{not json",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleSaveLoadListConfigs(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleSaveConfig(ctx, newRequest(map[string]interface{}{
		"name":   "demo",
		"config": `{"AWSVersion": "2022-04-02", "Name": "Demo"}`,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = s.handleListConfigs(ctx, newRequest(nil))
	require.NoError(t, err)
	decoded := resultJSON(t, result)
	assert.Equal(t, []interface{}{"demo"}, decoded["configs"])

	result, err = s.handleLoadConfig(ctx, newRequest(map[string]interface{}{
		"name": "demo",
	}))
	require.NoError(t, err)
	loaded := resultJSON(t, result)
	assert.Equal(t, "Demo", loaded["Name"])

	result, err = s.handleLoadConfig(ctx, newRequest(map[string]interface{}{
		"name": "ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRunConfigRejectsInvalidDocument(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleRunConfig(context.Background(), newRequest(map[string]interface{}{
		"config": `{"AWSVersion": "wrong"}`,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	decoded := resultJSON(t, result)
	assert.Equal(t, false, decoded["started"])
	validation := decoded["validation"].(map[string]interface{})
	assert.Equal(t, false, validation["valid"])
}

func TestHandleStopRunWithoutActive(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleStopRun(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No active run")
}

func TestHandleRunLogsWithoutActive(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleRunLogs(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
