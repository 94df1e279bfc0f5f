package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"sfcwizard/internal/knowledge"
	"sfcwizard/internal/validator"
)

var (
	validateStrict bool
	validateJSON   bool
)

// validateCmd validates an SFC configuration file locally, without a
// running server.
var validateCmd = &cobra.Command{
	Use:   "validate <config.json>",
	Short: "Validate an SFC configuration file",
	Long: `Validates an SFC JSON configuration against the structural rules of the
framework: required sections, schedule/source/target references, registry
entries, and known protocol and target types.

Exit code 0 means the configuration is valid (warnings allowed),
exit code 2 means validation errors were found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", args[0], err)
	}

	v := validator.New(knowledge.New(), validator.Policy{StrictTypes: validateStrict})
	result := v.Validate(doc)

	out := cmd.OutOrStdout()
	if validateJSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
	} else {
		if result.Valid {
			fmt.Fprintln(out, text.FgGreen.Sprintf("✔ %s is valid", args[0]))
		} else {
			fmt.Fprintln(out, text.FgRed.Sprintf("✘ %s has %d error(s)", args[0], len(result.Errors)))
		}
		for _, finding := range result.Errors {
			fmt.Fprintln(out, text.FgRed.Sprintf("  error   %s: %s", finding.Field, finding.Message))
		}
		for _, finding := range result.Warnings {
			fmt.Fprintln(out, text.FgYellow.Sprintf("  warning %s: %s", finding.Field, finding.Message))
		}
	}

	if !result.Valid {
		// Bypass cobra's error printing; the findings are the output.
		os.Exit(ExitCodeInvalidConfig)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat unregistered adapter/target types as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the validation result as JSON")
}
