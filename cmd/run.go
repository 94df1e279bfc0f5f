package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"sfcwizard/internal/config"
	"sfcwizard/internal/knowledge"
	"sfcwizard/internal/runner"
	"sfcwizard/internal/validator"
)

var (
	runName       string
	runConfigPath string
	runWorkspace  string
	runFollow     bool
)

// runCmd validates a configuration and runs it against the local SFC
// runtime, streaming the log output.
var runCmd = &cobra.Command{
	Use:   "run <config.json>",
	Short: "Run an SFC configuration locally",
	Long: `Validates the configuration and launches the SFC runtime with it in a
run directory under .sfc/runs/ in the workspace. The process output is
written to logs/sfc.log inside the run directory, together with a run.sh
script that reproduces the run.

With --follow (the default) the log is streamed to the terminal until the
process exits or Ctrl+C stops it; the SFC process is terminated on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", args[0], err)
	}

	cfg, err := config.LoadConfig(runConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	v := validator.New(knowledge.New(), validator.Policy{StrictTypes: cfg.Validation.StrictTypes})
	result := v.Validate(doc)
	out := cmd.OutOrStdout()
	for _, finding := range result.Warnings {
		fmt.Fprintln(out, text.FgYellow.Sprintf("warning %s: %s", finding.Field, finding.Message))
	}
	if !result.Valid {
		for _, finding := range result.Errors {
			fmt.Fprintln(out, text.FgRed.Sprintf("error   %s: %s", finding.Field, finding.Message))
		}
		os.Exit(ExitCodeInvalidConfig)
	}

	workspace := runWorkspace
	if workspace == "" {
		workspace, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	r := runner.New(runner.Options{
		WorkspaceRoot: workspace,
		Binary:        cfg.Runner.JavaBinary,
		DeploymentDir: cfg.Runner.DeploymentDir,
		ModulesDir:    cfg.Runner.ModulesDir,
		TailLines:     cfg.Runner.TailLines,
	})

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " starting SFC runtime..."
	s.Start()
	run, err := r.Start(ctx, runName, doc)
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	defer func() { _ = r.Stop() }()

	fmt.Fprintf(out, "Run %s started (pid directory %s)\n", run.Name, run.Dir)
	fmt.Fprintf(out, "Logs: %s\n", run.LogPath)

	if !runFollow {
		return nil
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logFile, err := os.Open(run.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	// Stream new log output until the process exits or we are interrupted.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-sigChan:
			fmt.Fprintln(out, "Stopping run...")
			return r.Stop()
		case <-ctx.Done():
			return r.Stop()
		case <-ticker.C:
			if _, err := io.Copy(out, logFile); err != nil {
				return fmt.Errorf("failed to read log file: %w", err)
			}
			if !run.Running() {
				fmt.Fprintf(out, "Run %s exited\n", run.Name)
				return nil
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runName, "name", "", "Run name (default: timestamped)")
	runCmd.Flags().StringVar(&runConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Workspace root (default: current directory)")
	runCmd.Flags().BoolVar(&runFollow, "follow", true, "Stream log output until the process exits")
}
