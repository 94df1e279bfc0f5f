package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sfcwizard/internal/knowledge"
	"sfcwizard/internal/template"
)

var (
	generateEnv    string
	generateOutput string
)

// generateCmd produces a ready-to-edit SFC configuration template for a
// protocol/target pair.
var generateCmd = &cobra.Command{
	Use:   "generate <protocol> <target>",
	Short: "Generate an SFC configuration template",
	Long: `Generates a complete SFC JSON configuration for the given protocol
adapter and target, with a wired schedule, placeholder connection settings,
and the matching adapter and target registries.

The environment profile tunes logging and scheduling: 'development' uses
trace logging with a short interval, 'production' uses info logging with a
longer interval and enables compression where the target supports it.

Examples:
  sfc-wizard generate OPCUA AWS-S3
  sfc-wizard generate S7 DEBUG --env production -o s7-debug.json`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	env, err := template.ParseEnvironment(generateEnv)
	if err != nil {
		return err
	}

	generator := template.New(knowledge.New())
	doc, err := generator.Generate(args[0], args[1], env)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}

	if generateOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	}

	if err := os.WriteFile(generateOutput, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", generateOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", generateOutput)
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateEnv, "env", "development", "Environment profile (development, production)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the template to a file instead of stdout")
}
