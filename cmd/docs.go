package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sfcwizard/internal/config"
	"sfcwizard/internal/docs"
)

var (
	docsPath          string
	docsConfigPath    string
	docsCategory      string
	docsCaseSensitive bool
)

// docsCmd groups the local documentation commands. They read the SFC
// checkout directly and do not need a running server.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Browse the SFC documentation corpus",
	Long: `Browse the SFC documentation checkout directly.

The corpus root defaults to the SFC checkout inside the current workspace
(populated by the update_docs tool of a running server); override it with
--docs-path. Documents are grouped into the categories core, adapter, and
target.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documentation by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, category, err := docsIndex()
		if err != nil {
			return err
		}
		matches, err := index.Query(category, docs.Wildcard, false)
		if err != nil {
			return err
		}
		printDocTable(cmd, matches)
		return nil
	},
}

var docsGetCmd = &cobra.Command{
	Use:   "get <category> <name>",
	Short: "Print one document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := docsIndexAt()
		if err != nil {
			return err
		}
		category, err := docs.ParseCategory(args[0])
		if err != nil {
			return err
		}
		content, err := index.Get(category, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

var docsQueryCmd = &cobra.Command{
	Use:   "query <pattern>",
	Short: "Find documents by name pattern (* wildcards)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, category, err := docsIndex()
		if err != nil {
			return err
		}
		matches, err := index.Query(category, args[0], false)
		if err != nil {
			return err
		}
		printDocTable(cmd, matches)
		return nil
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Full-text search across documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, category, err := docsIndex()
		if err != nil {
			return err
		}
		matches, err := index.SearchContent(args[0], category, docsCaseSensitive)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintln(out, "No matches")
			return nil
		}
		for _, match := range matches {
			fmt.Fprintf(out, "%s/%s\n", match.Category, match.Name)
			for _, excerpt := range match.Excerpts {
				fmt.Fprintln(out, excerpt)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func docsIndexAt() (*docs.Index, error) {
	root := docsPath
	if root == "" {
		cfg, err := config.LoadConfig(docsConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		workspace, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = cfg.DocsPath(workspace)
	}
	return docs.NewIndex(root), nil
}

func docsIndex() (*docs.Index, docs.Category, error) {
	index, err := docsIndexAt()
	if err != nil {
		return nil, "", err
	}
	category, err := docs.ParseCategory(docsCategory)
	if err != nil {
		return nil, "", err
	}
	return index, category, nil
}

func printDocTable(cmd *cobra.Command, matches []docs.Doc) {
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching documents")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAME", "CATEGORY", "PATH"})
	for _, doc := range matches {
		t.AppendRow(table.Row{doc.Name, doc.Category, doc.Path})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd, docsGetCmd, docsQueryCmd, docsSearchCmd)

	docsCmd.PersistentFlags().StringVar(&docsPath, "docs-path", "", "Documentation root (default: SFC checkout inside the workspace)")
	docsCmd.PersistentFlags().StringVar(&docsConfigPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	docsCmd.PersistentFlags().StringVar(&docsCategory, "category", "", "Restrict to a category (core, adapter, target)")
	docsSearchCmd.Flags().BoolVar(&docsCaseSensitive, "case-sensitive", false, "Match the term case-sensitively")
}
