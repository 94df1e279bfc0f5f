package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/mcp"
)

// Formatters renders tool results for the terminal.
type Formatters struct{}

// NewFormatters creates a formatter set.
func NewFormatters() *Formatters {
	return &Formatters{}
}

// FormatToolsTable renders the tool list as a table.
func (f *Formatters) FormatToolsTable(tools []mcp.Tool) string {
	if len(tools) == 0 {
		return text.FgYellow.Sprint("No tools available") + "\n"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TOOL", "DESCRIPTION"})
	for _, tool := range tools {
		t.AppendRow(table.Row{tool.Name, truncate(tool.Description, 80)})
	}
	return t.Render() + "\n"
}

// FormatValidation renders a validation result with colored findings.
func (f *Formatters) FormatValidation(raw string) string {
	var result struct {
		Valid    bool `json:"valid"`
		Errors   []struct{ Field, Message string } `json:"errors"`
		Warnings []struct{ Field, Message string } `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return raw
	}

	var sb strings.Builder
	if result.Valid {
		sb.WriteString(text.FgGreen.Sprint("✔ configuration is valid") + "\n")
	} else {
		sb.WriteString(text.FgRed.Sprintf("✘ configuration has %d error(s)", len(result.Errors)) + "\n")
	}

	for _, finding := range result.Errors {
		sb.WriteString(text.FgRed.Sprintf("  error   %s: %s", finding.Field, finding.Message) + "\n")
	}
	for _, finding := range result.Warnings {
		sb.WriteString(text.FgYellow.Sprintf("  warning %s: %s", finding.Field, finding.Message) + "\n")
	}
	return sb.String()
}

// FormatDocList renders a query_docs result as a table.
func (f *Formatters) FormatDocList(raw string) string {
	var result struct {
		Count int `json:"count"`
		Docs  []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
			Path     string `json:"path"`
		} `json:"docs"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return raw
	}
	if result.Count == 0 {
		return text.FgYellow.Sprint("No matching documents") + "\n"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAME", "CATEGORY", "PATH"})
	for _, doc := range result.Docs {
		t.AppendRow(table.Row{doc.Name, doc.Category, doc.Path})
	}
	return t.Render() + "\n"
}

// FormatJSON pretty-prints arbitrary tool output when it parses as JSON.
func (f *Formatters) FormatJSON(raw string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return raw
	}
	return string(pretty)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s...", s[:max-3])
}
