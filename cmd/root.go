package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidConfig indicates a configuration failed validation.
	ExitCodeInvalidConfig = 2
)

// rootCmd represents the base command for the sfc-wizard application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sfc-wizard",
	Short: "Assistant tooling for Shop Floor Connectivity configurations",
	Long: `sfc-wizard helps you work with AWS Shop Floor Connectivity (SFC):
it validates SFC JSON configurations, generates protocol/target templates,
retrieves the framework documentation, and runs configurations locally.

Most functionality is exposed as MCP tools via 'sfc-wizard serve' so that
AI assistants can use it; 'sfc-wizard agent' provides an interactive client.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sfc-wizard version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
