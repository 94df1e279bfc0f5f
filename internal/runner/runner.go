// Package runner launches the framework main process with a configuration
// document in an isolated run directory and tails its log output. Only one
// run is active at a time; starting a new run stops the previous one.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sfcwizard/internal/config"
	"sfcwizard/pkg/logging"
)

// stopGracePeriod is how long a terminated process gets before being killed.
const stopGracePeriod = 2 * time.Second

// Options configures the runner.
type Options struct {
	WorkspaceRoot string
	Binary        string // framework launcher, e.g. the sfc-main executable
	Args          []string
	DeploymentDir string
	ModulesDir    string
	TailLines     int
}

// Run describes one launched framework process.
type Run struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Dir        string    `json:"dir"`
	ConfigPath string    `json:"config_path"`
	LogPath    string    `json:"log_path"`
	ScriptPath string    `json:"script_path"`
	StartedAt  time.Time `json:"started_at"`

	cmd  *exec.Cmd
	tail *Tail
	log  *os.File
	done chan struct{}

	waitOnce sync.Once
	waitErr  error
}

// Logs returns up to n recent log lines from the run, oldest first.
func (r *Run) Logs(n int) []string {
	if r.tail == nil {
		return nil
	}
	return r.tail.Lines(n)
}

// Running reports whether the process is still alive. The background waiter
// started with the run closes done once the process has been reaped.
func (r *Run) Running() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// wait reaps the process exactly once.
func (r *Run) wait() error {
	r.waitOnce.Do(func() {
		r.waitErr = r.cmd.Wait()
	})
	return r.waitErr
}

// Runner manages the lifecycle of local framework runs.
type Runner struct {
	opts Options

	mu     sync.Mutex
	active *Run
}

// New creates a runner.
func New(opts Options) *Runner {
	if opts.Binary == "" {
		opts.Binary = "sfc-main"
	}
	return &Runner{opts: opts}
}

// runsDir is where run directories are created.
func (r *Runner) runsDir() string {
	return filepath.Join(r.opts.WorkspaceRoot, config.WorkspaceDirName, "runs")
}

// modulesDir is where framework modules are resolved from.
func (r *Runner) modulesDir() string {
	if r.opts.ModulesDir != "" {
		return r.opts.ModulesDir
	}
	return filepath.Join(r.opts.WorkspaceRoot, config.WorkspaceDirName, "modules")
}

// Active returns the current run, or nil.
func (r *Runner) Active() *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start launches the framework with the given configuration document. Any
// previous run is stopped first. An empty name gets a timestamped default.
func (r *Runner) Start(ctx context.Context, name string, doc map[string]interface{}) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		logging.Info("runner", "Stopping run %s before starting a new one", r.active.Name)
		r.stopLocked()
	}

	if name == "" {
		name = "sfc_test_" + time.Now().Format("20060102_150405")
	}

	runDir := filepath.Join(r.runsDir(), name)
	logDir := filepath.Join(runDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}
	if err := os.MkdirAll(r.modulesDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create modules directory: %w", err)
	}

	configPath := filepath.Join(runDir, "config.json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write configuration to %s: %w", configPath, err)
	}

	logPath := filepath.Join(logDir, "sfc.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	args := append(append([]string{}, r.opts.Args...), "-config", configPath, "-trace")

	deploymentDir := r.opts.DeploymentDir
	if deploymentDir == "" {
		deploymentDir = r.modulesDir()
	}

	scriptPath := filepath.Join(runDir, "run.sh")
	if err := r.writeRunScript(scriptPath, deploymentDir, args); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.opts.Binary, args...)
	cmd.Dir = runDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	cmd.Env = append(os.Environ(),
		"SFC_DEPLOYMENT_DIR="+mustAbs(deploymentDir),
		"MODULES_DIR="+mustAbs(r.modulesDir()),
	)

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to start %s: %w", r.opts.Binary, err)
	}

	run := &Run{
		ID:         uuid.NewString(),
		Name:       name,
		Dir:        runDir,
		ConfigPath: configPath,
		LogPath:    logPath,
		ScriptPath: scriptPath,
		StartedAt:  time.Now(),
		cmd:        cmd,
		log:        logFile,
		done:       make(chan struct{}),
	}

	tail := NewTail(logPath, r.opts.TailLines)
	if err := tail.Start(); err != nil {
		logging.Warn("runner", "Log tailing unavailable for run %s: %v", name, err)
	} else {
		run.tail = tail
	}

	// Reap the process as soon as it exits so Running reflects reality.
	go func() {
		_ = run.wait()
		close(run.done)
	}()

	logging.Info("runner", "Started run %s (pid %d) in %s", name, cmd.Process.Pid, runDir)
	r.active = run
	return run, nil
}

// Stop terminates the active run, if any. Stopping with no active run is not
// an error.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked()
}

func (r *Runner) stopLocked() error {
	run := r.active
	if run == nil {
		return nil
	}
	r.active = nil

	defer func() {
		if run.tail != nil {
			run.tail.Stop()
		}
		run.log.Close()
	}()

	if run.cmd.Process == nil {
		return nil
	}

	if err := run.cmd.Process.Signal(os.Interrupt); err != nil {
		// Already gone or not signalable, fall through to kill.
		logging.Debug("runner", "Interrupt of run %s failed: %v", run.Name, err)
	}

	done := make(chan error, 1)
	go func() { done <- run.wait() }()

	select {
	case <-done:
		logging.Info("runner", "Run %s stopped", run.Name)
		return nil
	case <-time.After(stopGracePeriod):
		if err := run.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill run %s: %w", run.Name, err)
		}
		<-done
		logging.Info("runner", "Run %s killed after grace period", run.Name)
		return nil
	}
}

// writeRunScript persists a shell script that reproduces the run outside the
// wizard, with the same environment and arguments.
func (r *Runner) writeRunScript(path, deploymentDir string, args []string) error {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString(fmt.Sprintf("export SFC_DEPLOYMENT_DIR=%q\n", mustAbs(deploymentDir)))
	sb.WriteString(fmt.Sprintf("export MODULES_DIR=%q\n", mustAbs(r.modulesDir())))
	sb.WriteString("exec " + shellQuote(r.opts.Binary))
	for _, arg := range args {
		sb.WriteString(" " + shellQuote(arg))
	}
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o755); err != nil {
		return fmt.Errorf("failed to write run script %s: %w", path, err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
