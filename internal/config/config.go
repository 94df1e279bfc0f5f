// Package config loads the application configuration and stores user
// configuration documents in the workspace.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sfcwizard/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/sfcwizard"
	configFileName = "config.yaml"

	// WorkspaceDirName is the per-project workspace folder holding stored
	// configurations and run directories.
	WorkspaceDirName = ".sfc"
)

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// WizardConfig is the top-level configuration structure.
type WizardConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Docs       DocsConfig       `yaml:"docs"`
	Validation ValidationConfig `yaml:"validation"`
	Runner     RunnerConfig     `yaml:"runner"`
}

// ServerConfig defines how the documentation tool server is exposed.
type ServerConfig struct {
	Port      int    `yaml:"port,omitempty"`      // Port for the HTTP transports (default: 8090)
	Host      string `yaml:"host,omitempty"`      // Host to bind to (default: localhost)
	Transport string `yaml:"transport,omitempty"` // Transport to use (default: stdio)
}

// DocsConfig locates the documentation corpus.
type DocsConfig struct {
	Path    string `yaml:"path,omitempty"`    // Local corpus checkout (default: <workspace>/sfc-repo/docs)
	RepoURL string `yaml:"repoUrl,omitempty"` // Upstream repository for corpus updates
}

// ValidationConfig tunes the configuration validator.
type ValidationConfig struct {
	StrictTypes bool `yaml:"strictTypes,omitempty"` // Treat registry misses as errors instead of warnings
}

// RunnerConfig configures local framework runs.
type RunnerConfig struct {
	JavaBinary    string `yaml:"javaBinary,omitempty"`    // Java executable (default: java)
	DeploymentDir string `yaml:"deploymentDir,omitempty"` // SFC_DEPLOYMENT_DIR for launched processes
	ModulesDir    string `yaml:"modulesDir,omitempty"`    // MODULES_DIR for launched processes
	TailLines     int    `yaml:"tailLines,omitempty"`     // Log lines retained per run (default: 200)
}

// GetDefaultConfig returns the built-in defaults.
func GetDefaultConfig() WizardConfig {
	return WizardConfig{
		Server: ServerConfig{
			Port:      8090,
			Host:      "localhost",
			Transport: TransportStdio,
		},
		Docs: DocsConfig{
			RepoURL: "https://github.com/aws-samples/shopfloor-connectivity.git",
		},
		Runner: RunnerConfig{
			JavaBinary: "java",
			TailLines:  200,
		},
	}
}

// GetDefaultConfigPathOrPanic returns the user configuration directory.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory, falling back
// to defaults when no config.yaml exists there.
func LoadConfig(configPath string) (WizardConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return WizardConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WizardConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// DocsPathEnvVar overrides the documentation corpus location.
const DocsPathEnvVar = "SFC_DOCS_PATH"

// DocsPath resolves the corpus location: environment override first, then
// the configured path, then the local checkout inside the workspace.
func (c WizardConfig) DocsPath(workspaceRoot string) string {
	if path := os.Getenv(DocsPathEnvVar); path != "" {
		return path
	}
	if c.Docs.Path != "" {
		return c.Docs.Path
	}
	return filepath.Join(workspaceRoot, WorkspaceDirName, "sfc-repo", "docs")
}
