// Package cli implements the scorecard command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type globalOptions struct {
	catalogPath    string
	classifierMode string
}

// NewRootCommand creates and returns the root cobra command for scorecard
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Home fall-risk questionnaire and scorecard",
		Long: `Scorecard walks through a short home fall-risk questionnaire, scores the
answers per category and prints a report with practical advice.

Saved response logs can be scored and exported as Markdown or HTML without
answering the questions again.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "question catalog YAML file (default: built-in fall-risk catalog)")
	cmd.PersistentFlags().StringVar(&opts.classifierMode, "classifier", "", "note classifier: keyword, llm or hybrid (default: from config)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newQuestionsCommand(opts))
	cmd.AddCommand(newScoreCommand(opts))

	return cmd
}
