package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// Logger provides formatted logging for the interactive client. In JSON-RPC
// mode the full protocol traffic is printed; otherwise only a short summary
// per request.
type Logger struct {
	verbose     bool
	useColor    bool
	jsonRPCMode bool
	writer      io.Writer
}

// NewLogger creates a new logger writing to stdout.
func NewLogger(verbose, useColor, jsonRPCMode bool) *Logger {
	return &Logger{
		verbose:     verbose,
		useColor:    useColor,
		jsonRPCMode: jsonRPCMode,
		writer:      os.Stdout,
	}
}

// NewDevNullLogger returns a logger that discards everything.
func NewDevNullLogger() *Logger {
	return &Logger{writer: io.Discard}
}

// SetWriter sets a custom writer for the logger.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// Output writes user-facing output directly, without timestamps.
func (l *Logger) Output(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

// OutputLine writes user-facing output with a newline.
func (l *Logger) OutputLine(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) colorize(text, colorCode string) string {
	if !l.useColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, colorReset)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message (only in verbose mode).
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(fmt.Sprintf(format, args...), colorGray))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(fmt.Sprintf(format, args...), colorRed))
}

// Success logs a success message.
func (l *Logger) Success(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(fmt.Sprintf(format, args...), colorGreen))
}

// Request logs an outgoing request.
func (l *Logger) Request(method string, params interface{}) {
	if !l.jsonRPCMode {
		switch method {
		case "initialize":
			l.Info("Initializing MCP session...")
		case "tools/list":
			l.Info("Listing available tools...")
		default:
			l.Info("Sending request: %s", method)
		}
		return
	}

	arrow := l.colorize("→", colorBlue)
	methodStr := l.colorize(fmt.Sprintf("REQUEST (%s)", method), colorBlue)
	fmt.Fprintf(l.writer, "[%s] %s %s:\n", l.timestamp(), arrow, methodStr)
	if params != nil {
		fmt.Fprintln(l.writer, l.colorize(l.prettyJSON(params), colorBlue))
	}
	fmt.Fprintln(l.writer)
}

// Response logs an incoming response.
func (l *Logger) Response(method string, result interface{}) {
	if !l.jsonRPCMode {
		switch method {
		case "initialize":
			l.Success("Session initialized successfully")
		case "tools/list":
			if count := countTools(result); count >= 0 {
				l.Success("Found %d tools", count)
			} else {
				l.Success("Retrieved tool list")
			}
		default:
			l.Success("Received response for: %s", method)
		}
		return
	}

	arrow := l.colorize("←", colorGreen)
	methodStr := l.colorize(fmt.Sprintf("RESPONSE (%s)", method), colorGreen)
	fmt.Fprintf(l.writer, "[%s] %s %s:\n", l.timestamp(), arrow, methodStr)
	if result != nil {
		fmt.Fprintln(l.writer, l.colorize(l.prettyJSON(result), colorGreen))
	}
	fmt.Fprintln(l.writer)
}

// Notification logs an incoming notification.
func (l *Logger) Notification(method string, params interface{}) {
	if !l.jsonRPCMode {
		switch method {
		case "notifications/tools/list_changed":
			l.Info("Tools list changed! Fetching updated list...")
		default:
			l.Debug("Received notification: %s", method)
		}
		return
	}

	arrow := l.colorize("←", colorYellow)
	methodStr := l.colorize(fmt.Sprintf("NOTIFICATION (%s)", method), colorYellow)
	fmt.Fprintf(l.writer, "[%s] %s %s:\n", l.timestamp(), arrow, methodStr)
	if params != nil {
		fmt.Fprintln(l.writer, l.colorize(l.prettyJSON(params), colorYellow))
	}
	fmt.Fprintln(l.writer)
}

func (l *Logger) prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// countTools extracts the tool count from a tools/list response shape.
func countTools(result interface{}) int {
	type toolsResult struct {
		Tools []interface{} `json:"tools"`
	}

	if jsonBytes, err := json.Marshal(result); err == nil {
		var tr toolsResult
		if err := json.Unmarshal(jsonBytes, &tr); err == nil && tr.Tools != nil {
			return len(tr.Tools)
		}
	}
	return -1
}
