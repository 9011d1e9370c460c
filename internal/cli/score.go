package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/export"
	"risk-scorecard/internal/service"
	"risk-scorecard/internal/validation"

	"github.com/spf13/cobra"
)

const formatJSON = "json"

func newScoreCommand(opts *globalOptions) *cobra.Command {
	var responsesPath, format, outputPath string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a saved response log",
		Long: `Score reads a response log and prints the report as Markdown, HTML or JSON.

The log is either a JSON array of {"question_id", "answer"} entries or an
object holding that array under "responses". Use - to read from stdin.`,
		Example: `  scorecard score --responses answers.json
  scorecard score --responses answers.json --format html --output report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != formatJSON {
				if errs := validation.NewValidator().ValidateExportFormat(format); len(errs) > 0 {
					return errs
				}
			}

			responses, err := readResponses(responsesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			env, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			svc := service.NewAssessmentService(env.catalog, env.classifier, 0)
			defer svc.Close()

			var content []byte
			if format == formatJSON {
				report, err := svc.ScoreResponses(cmd.Context(), responses)
				if err != nil {
					return err
				}
				if content, err = json.MarshalIndent(report, "", "  "); err != nil {
					return err
				}
				content = append(content, '\n')
			} else {
				report, err := svc.Evaluate(cmd.Context(), responses)
				if err != nil {
					return err
				}
				content, _, err = export.Render(format, export.Document{
					Report:      report,
					Catalog:     env.catalog,
					GeneratedAt: time.Now().UTC(),
				})
				if err != nil {
					return err
				}
			}

			if outputPath == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(outputPath, content, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&responsesPath, "responses", "r", "", "response log JSON file, or - for stdin (required)")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown, "output format: md, html or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("responses")

	return cmd
}

// readResponses loads a response log from path, accepting either a bare array or
// an object with a "responses" field.
func readResponses(path string, stdin io.Reader) ([]domain.ResponseEntry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	data = bytes.TrimSpace(data)
	var responses []domain.ResponseEntry
	if bytes.HasPrefix(data, []byte("[")) {
		err = json.Unmarshal(data, &responses)
	} else {
		var wrapped struct {
			Responses []domain.ResponseEntry `json:"responses"`
		}
		err = json.Unmarshal(data, &wrapped)
		responses = wrapped.Responses
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse responses: %w", err)
	}

	if errs := validation.NewValidator().ValidateResponses(responses); len(errs) > 0 {
		return nil, errs
	}
	return responses, nil
}
