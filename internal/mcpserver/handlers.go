package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"sfcwizard/internal/config"
	"sfcwizard/internal/docs"
	"sfcwizard/internal/template"
)

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	whatIsTool := mcp.NewTool("what_is_sfc",
		mcp.WithDescription("Explain what the Shop Floor Connectivity framework is and what it supports"),
	)
	s.server.AddTool(whatIsTool, s.handleWhatIs)

	listDocsTool := mcp.NewTool("list_docs",
		mcp.WithDescription("List available documentation files in a category"),
		mcp.WithString("category",
			mcp.Description("Documentation category: core, adapter, target or all (default: all)"),
		),
	)
	s.server.AddTool(listDocsTool, s.handleListDocs)

	getDocTool := mcp.NewTool("get_doc",
		mcp.WithDescription("Get the content of a documentation file"),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Documentation category: core, adapter or target"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Document name, with or without the .md extension"),
		),
	)
	s.server.AddTool(getDocTool, s.handleGetDoc)

	queryDocsTool := mcp.NewTool("query_docs",
		mcp.WithDescription("Find documentation files by name pattern (supports * as prefix/suffix wildcard)"),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Name pattern, e.g. 'config*', '*target*' or an exact name"),
		),
		mcp.WithString("category",
			mcp.Description("Documentation category: core, adapter, target or all (default: all)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include document content in the results (default: false)"),
		),
	)
	s.server.AddTool(queryDocsTool, s.handleQueryDocs)

	searchContentTool := mcp.NewTool("search_doc_content",
		mcp.WithDescription("Search documentation text for a term and return matching excerpts"),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithString("category",
			mcp.Description("Documentation category: core, adapter, target or all (default: all)"),
		),
		mcp.WithBoolean("case_sensitive",
			mcp.Description("Whether the search is case-sensitive (default: false)"),
		),
	)
	s.server.AddTool(searchContentTool, s.handleSearchContent)

	extractExamplesTool := mcp.NewTool("extract_json_examples",
		mcp.WithDescription("Extract fenced JSON examples from documentation files matching a name pattern"),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Name pattern, e.g. 'opcua' or '*target*'"),
		),
		mcp.WithString("category",
			mcp.Description("Documentation category: core, adapter, target or all (default: all)"),
		),
	)
	s.server.AddTool(extractExamplesTool, s.handleExtractExamples)

	configExamplesTool := mcp.NewTool("get_config_examples",
		mcp.WithDescription("Get configuration examples for a protocol or target from the documentation"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Protocol or target name, e.g. OPCUA or AWS-S3"),
		),
	)
	s.server.AddTool(configExamplesTool, s.handleConfigExamples)

	createTemplateTool := mcp.NewTool("create_config_template",
		mcp.WithDescription("Create a configuration template for a protocol and target combination"),
		mcp.WithString("protocol",
			mcp.Required(),
			mcp.Description("Source protocol, e.g. OPCUA, MODBUS, S7"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target service, e.g. AWS-S3, AWS-IOT-CORE, DEBUG"),
		),
		mcp.WithString("environment",
			mcp.Description("Environment profile: development or production (default: development)"),
		),
	)
	s.server.AddTool(createTemplateTool, s.handleCreateTemplate)

	validateConfigTool := mcp.NewTool("validate_config",
		mcp.WithDescription("Validate a configuration document and report errors and warnings"),
		mcp.WithString("config",
			mcp.Required(),
			mcp.Description("Configuration document as a JSON string"),
		),
	)
	s.server.AddTool(validateConfigTool, s.handleValidateConfig)

	updateDocsTool := mcp.NewTool("update_docs",
		mcp.WithDescription("Clone or refresh the local checkout of the framework documentation"),
	)
	s.server.AddTool(updateDocsTool, s.handleUpdateDocs)

	saveConfigTool := mcp.NewTool("save_config",
		mcp.WithDescription("Save a configuration document to the workspace store"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name to store the configuration under"),
		),
		mcp.WithString("config",
			mcp.Required(),
			mcp.Description("Configuration document as a JSON string"),
		),
	)
	s.server.AddTool(saveConfigTool, s.handleSaveConfig)

	loadConfigTool := mcp.NewTool("load_config",
		mcp.WithDescription("Load a stored configuration document"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the stored configuration"),
		),
	)
	s.server.AddTool(loadConfigTool, s.handleLoadConfig)

	listConfigsTool := mcp.NewTool("list_configs",
		mcp.WithDescription("List stored configuration documents"),
	)
	s.server.AddTool(listConfigsTool, s.handleListConfigs)

	runConfigTool := mcp.NewTool("run_config",
		mcp.WithDescription("Run a configuration locally with the framework launcher; replaces any active run"),
		mcp.WithString("config",
			mcp.Required(),
			mcp.Description("Configuration document as a JSON string"),
		),
		mcp.WithString("name",
			mcp.Description("Name for the run directory (default: timestamped)"),
		),
	)
	s.server.AddTool(runConfigTool, s.handleRunConfig)

	stopRunTool := mcp.NewTool("stop_run",
		mcp.WithDescription("Stop the active local run"),
	)
	s.server.AddTool(stopRunTool, s.handleStopRun)

	runLogsTool := mcp.NewTool("get_run_logs",
		mcp.WithDescription("Get recent log lines from the active local run"),
		mcp.WithNumber("lines",
			mcp.Description("Number of log lines to return (default: 50)"),
		),
	)
	s.server.AddTool(runLogsTool, s.handleRunLogs)
}

// jsonResult marshals a value as indented JSON tool output.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// categoryArg reads and validates the optional category argument.
func categoryArg(request mcp.CallToolRequest) (docs.Category, *mcp.CallToolResult) {
	category, err := docs.ParseCategory(request.GetString("category", ""))
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return category, nil
}

// configArg parses the required config argument as a JSON document.
func configArg(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	raw, err := request.RequireString("config")
	if err != nil {
		return nil, mcp.NewToolResultError("config argument is required")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Invalid JSON configuration: %v", err))
	}
	return doc, nil
}

func (s *Server) handleWhatIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.kb.Explanation()), nil
}

func (s *Server) handleListDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, errResult := categoryArg(request)
	if errResult != nil {
		return errResult, nil
	}

	result := map[string]interface{}{}
	if category == docs.CategoryAll {
		for _, cat := range []docs.Category{docs.CategoryCore, docs.CategoryAdapter, docs.CategoryTarget} {
			names, err := s.index.List(cat)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			result[string(cat)] = names
		}
	} else {
		names, err := s.index.List(category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result[string(category)] = names
	}

	return jsonResult(result)
}

func (s *Server) handleGetDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categoryName, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category argument is required"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	category, parseErr := docs.ParseCategory(categoryName)
	if parseErr != nil {
		return mcp.NewToolResultError(parseErr.Error()), nil
	}
	if category == docs.CategoryAll {
		return mcp.NewToolResultError("category must be core, adapter or target"), nil
	}

	content, err := s.index.Get(category, name)
	if errors.Is(err, docs.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Document not found: %s/%s", category, name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleQueryDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern argument is required"), nil
	}
	category, errResult := categoryArg(request)
	if errResult != nil {
		return errResult, nil
	}
	includeContent := request.GetBool("include_content", false)

	results, err := s.index.Query(category, pattern, includeContent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"pattern": pattern,
		"count":   len(results),
		"docs":    results,
	})
}

func (s *Server) handleSearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("term argument is required"), nil
	}
	category, errResult := categoryArg(request)
	if errResult != nil {
		return errResult, nil
	}
	caseSensitive := request.GetBool("case_sensitive", false)

	matches, err := s.index.SearchContent(term, category, caseSensitive)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"term":    term,
		"count":   len(matches),
		"matches": matches,
	})
}

func (s *Server) handleExtractExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError("pattern argument is required"), nil
	}
	category, errResult := categoryArg(request)
	if errResult != nil {
		return errResult, nil
	}

	examples, err := s.index.ExtractJSONExamples(category, pattern)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"pattern":  pattern,
		"count":    len(examples),
		"examples": examples,
	})
}

func (s *Server) handleConfigExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	examples, err := s.index.ConfigExamples(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"name":     name,
		"count":    len(examples),
		"examples": examples,
	})
}

func (s *Server) handleCreateTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	protocol, err := request.RequireString("protocol")
	if err != nil {
		return mcp.NewToolResultError("protocol argument is required"), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target argument is required"), nil
	}

	env, err := template.ParseEnvironment(request.GetString("environment", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.generator.Generate(protocol, target, env)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) handleValidateConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := configArg(request)
	if errResult != nil {
		return errResult, nil
	}

	return jsonResult(s.validator.Validate(doc))
}

func (s *Server) handleUpdateDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := s.repo.Update(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSaveConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}
	doc, errResult := configArg(request)
	if errResult != nil {
		return errResult, nil
	}

	path, err := s.store.Save(name, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Configuration saved to %s", path)), nil
}

func (s *Server) handleLoadConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	doc, err := s.store.Load(name)
	if errors.Is(err, config.ErrConfigNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Stored configuration not found: %s", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"count":   len(names),
		"configs": names,
	})
}

func (s *Server) handleRunConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := configArg(request)
	if errResult != nil {
		return errResult, nil
	}
	name := request.GetString("name", "")

	// Refuse to launch configurations that do not validate.
	if res := s.validator.Validate(doc); !res.Valid {
		return jsonResult(map[string]interface{}{
			"started":    false,
			"validation": res,
		})
	}

	// Runs outlive the tool call, so they are bound to the server context
	// rather than the request context.
	runCtx := s.ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	run, err := s.runner.Start(runCtx, name, doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(run)
}

func (s *Server) handleStopRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := s.runner.Active()
	if active == nil {
		return mcp.NewToolResultText("No active run"), nil
	}

	if err := s.runner.Stop(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Stopped run %s", active.Name)), nil
}

func (s *Server) handleRunLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := s.runner.Active()
	if active == nil {
		return mcp.NewToolResultError("No active run"), nil
	}

	lines := request.GetInt("lines", 50)
	return jsonResult(map[string]interface{}{
		"run":   active.Name,
		"lines": active.Logs(lines),
	})
}
