package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
)

// errExit signals a user-requested shutdown of the REPL loop.
var errExit = errors.New("exit")

// REPL is the interactive shell over the wizard tool server.
type REPL struct {
	client     *Client
	logger     *Logger
	formatters *Formatters
	rl         *readline.Instance
	showSpin   bool
}

// NewREPL creates a REPL over a connected client. Spinners are suppressed
// when stdout is not a terminal.
func NewREPL(client *Client, logger *Logger) *REPL {
	fi, err := os.Stdout.Stat()
	interactive := err == nil && (fi.Mode()&os.ModeCharDevice) != 0

	return &REPL{
		client:     client,
		logger:     logger,
		formatters: NewFormatters(),
		showSpin:   interactive,
	}
}

// Run enters the main interaction loop until Ctrl+D, exit, or context
// cancellation.
func (r *REPL) Run(ctx context.Context) error {
	historyFile := filepath.Join(os.TempDir(), ".sfcwizard_agent_history")

	config := &readline.Config{
		Prompt:            "sfc> ",
		HistoryFile:       historyFile,
		AutoComplete:      r.createCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	// Surface server-side notifications while idle.
	go func() {
		for notification := range r.client.NotificationChan {
			if err := r.client.HandleNotification(ctx, notification); err != nil {
				r.logger.Error("Failed to handle notification: %v", err)
			}
		}
	}()

	r.logger.Info("Interactive session started. Type 'help' for available commands. Use TAB for completion.")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down...")
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			r.logger.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				r.logger.Info("Goodbye!")
				return nil
			}
			r.logger.Error("Error: %v", err)
		}
		fmt.Println()
	}
}

func (r *REPL) createCompleter() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("tools"),
		readline.PcItem("docs"),
		readline.PcItem("get",
			readline.PcItem("core"),
			readline.PcItem("adapter"),
			readline.PcItem("target"),
		),
		readline.PcItem("search"),
		readline.PcItem("examples"),
		readline.PcItem("template"),
		readline.PcItem("validate"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem("configs"),
		readline.PcItem("run"),
		readline.PcItem("logs"),
		readline.PcItem("stop"),
		readline.PcItem("update"),
		readline.PcItem("what"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}

// callWithSpinner runs a tool call with a progress spinner on a terminal.
func (r *REPL) callWithSpinner(ctx context.Context, tool string, args map[string]interface{}) (string, error) {
	var s *spinner.Spinner
	if r.showSpin {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = fmt.Sprintf(" calling %s...", tool)
		s.Start()
	}

	result, err := r.client.CallToolSimple(ctx, tool, args)
	if s != nil {
		s.Stop()
	}
	return result, err
}

func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "exit", "quit":
		return errExit

	case "help":
		r.printHelp()
		return nil

	case "tools":
		r.logger.Output("%s", r.formatters.FormatToolsTable(r.client.Tools()))
		return nil

	case "what":
		result, err := r.callWithSpinner(ctx, "what_is_sfc", nil)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", result)
		return nil

	case "docs":
		pattern := "*"
		if len(args) > 0 {
			pattern = args[0]
		}
		result, err := r.callWithSpinner(ctx, "query_docs", map[string]interface{}{
			"pattern": pattern,
		})
		if err != nil {
			return err
		}
		r.logger.Output("%s", r.formatters.FormatDocList(result))
		return nil

	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: get <core|adapter|target> <name>")
		}
		result, err := r.callWithSpinner(ctx, "get_doc", map[string]interface{}{
			"category": args[0],
			"name":     args[1],
		})
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", result)
		return nil

	case "search":
		if len(args) < 1 {
			return fmt.Errorf("usage: search <term>")
		}
		result, err := r.callWithSpinner(ctx, "search_doc_content", map[string]interface{}{
			"term": strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "examples":
		if len(args) < 1 {
			return fmt.Errorf("usage: examples <pattern>")
		}
		result, err := r.callWithSpinner(ctx, "extract_json_examples", map[string]interface{}{
			"pattern": args[0],
		})
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "template":
		if len(args) < 2 {
			return fmt.Errorf("usage: template <protocol> <target> [development|production]")
		}
		toolArgs := map[string]interface{}{
			"protocol": args[0],
			"target":   args[1],
		}
		if len(args) > 2 {
			toolArgs["environment"] = args[2]
		}
		result, err := r.callWithSpinner(ctx, "create_config_template", toolArgs)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "validate":
		if len(args) < 1 {
			return fmt.Errorf("usage: validate <file.json>")
		}
		configJSON, err := readConfigFile(args[0])
		if err != nil {
			return err
		}
		result, err := r.callWithSpinner(ctx, "validate_config", map[string]interface{}{
			"config": configJSON,
		})
		if err != nil {
			return err
		}
		r.logger.Output("%s", r.formatters.FormatValidation(result))
		return nil

	case "save":
		if len(args) < 2 {
			return fmt.Errorf("usage: save <name> <file.json>")
		}
		configJSON, err := readConfigFile(args[1])
		if err != nil {
			return err
		}
		result, err := r.callWithSpinner(ctx, "save_config", map[string]interface{}{
			"name":   args[0],
			"config": configJSON,
		})
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", result)
		return nil

	case "load":
		if len(args) < 1 {
			return fmt.Errorf("usage: load <name>")
		}
		result, err := r.callWithSpinner(ctx, "load_config", map[string]interface{}{
			"name": args[0],
		})
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "configs":
		result, err := r.callWithSpinner(ctx, "list_configs", nil)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "run":
		if len(args) < 1 {
			return fmt.Errorf("usage: run <file.json> [name]")
		}
		configJSON, err := readConfigFile(args[0])
		if err != nil {
			return err
		}
		toolArgs := map[string]interface{}{"config": configJSON}
		if len(args) > 1 {
			toolArgs["name"] = args[1]
		}
		result, err := r.callWithSpinner(ctx, "run_config", toolArgs)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "logs":
		toolArgs := map[string]interface{}{}
		if len(args) > 0 {
			lines, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("usage: logs [lines]")
			}
			toolArgs["lines"] = lines
		}
		result, err := r.callWithSpinner(ctx, "get_run_logs", toolArgs)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", r.formatters.FormatJSON(result))
		return nil

	case "stop":
		result, err := r.callWithSpinner(ctx, "stop_run", nil)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", result)
		return nil

	case "update":
		result, err := r.callWithSpinner(ctx, "update_docs", nil)
		if err != nil {
			return err
		}
		r.logger.OutputLine("%s", result)
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}
}

func (r *REPL) printHelp() {
	help := `Available commands:
  what                               Explain the framework
  tools                              List server tools
  docs [pattern]                     Find documentation by name pattern (* wildcards)
  get <category> <name>              Show one document (core, adapter, target)
  search <term>                      Full-text search across documentation
  examples <pattern>                 Extract JSON examples from matching docs
  template <protocol> <target> [env] Generate a configuration template
  validate <file.json>               Validate a configuration file
  save <name> <file.json>            Store a configuration
  load <name>                        Show a stored configuration
  configs                            List stored configurations
  run <file.json> [name]             Run a configuration locally
  logs [lines]                       Show recent logs from the active run
  stop                               Stop the active run
  update                             Refresh the documentation checkout
  exit, quit                         Leave the session`
	r.logger.OutputLine("%s", help)
}

// readConfigFile loads a configuration file, defaulting the .json extension.
func readConfigFile(path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		path += ".json"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read configuration file: %w", err)
	}
	return string(data), nil
}
