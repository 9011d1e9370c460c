package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newQuestionsCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the questions, options and point weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(env.catalog.Questions)
			}
			newPrinter(out, isTerminal(out)).printQuestions(env.catalog)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the question set as JSON")
	return cmd
}
