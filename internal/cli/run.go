package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/classifier"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/export"
	"risk-scorecard/internal/questionnaire"
	"risk-scorecard/internal/scoring"
	"risk-scorecard/internal/validation"

	"github.com/spf13/cobra"
)

// errQuit is returned when the user leaves before the last question.
var errQuit = errors.New("questionnaire abandoned")

const (
	commandQuit    = ":quit"
	commandRestart = ":restart"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var exportPath, exportFormat string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the questionnaire interactively",
		Long: `Run asks each question in turn and prints a scored report at the end.

Answer with the option number or its text. Type :restart to start over or
:quit to leave without a report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportPath != "" {
				if errs := validation.NewValidator().ValidateExportFormat(exportFormat); len(errs) > 0 {
					return errs
				}
			}

			env, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			out := cmd.OutOrStdout()
			p := newPrinter(out, isTerminal(out))

			report, err := runQuestionnaire(cmd.Context(), cmd.InOrStdin(), p, env.catalog, env.classifier)
			if errors.Is(err, errQuit) {
				fmt.Fprintln(out, "\nNo report was produced.")
				return nil
			}
			if err != nil {
				return err
			}
			p.printReport(env.catalog, report)

			if exportPath != "" {
				return writeExport(exportPath, exportFormat, env.catalog, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "e", "", "also write the report to this file")
	cmd.Flags().StringVar(&exportFormat, "format", export.FormatMarkdown, "export format: md or html")

	return cmd
}

// runQuestionnaire drives an engine from line-oriented input until every question
// is answered, then scores the responses and classifies the notes.
func runQuestionnaire(ctx context.Context, in io.Reader, p *printer, cat *catalog.Catalog, c domain.NoteClassifier) (*domain.Report, error) {
	engine, err := questionnaire.New(cat.Questions)
	if err != nil {
		return nil, err
	}

	p.heading.Fprintln(p.out, cat.Title)
	p.muted.Fprintf(p.out, "Answer with a number or the option text. %s starts over, %s leaves.\n", commandRestart, commandQuit)

	scanner := bufio.NewScanner(in)
	for !engine.Done() {
		prompt, _ := engine.Current()
		answered, total := engine.Progress()
		p.printPrompt(prompt, answered, total)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read answer: %w", err)
			}
			return nil, domain.NewQuestionnaireIncompleteError(answered, total)
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case commandQuit:
			return nil, errQuit
		case commandRestart:
			if engine, err = questionnaire.New(cat.Questions); err != nil {
				return nil, err
			}
			p.warn.Fprintln(p.out, "Starting over.")
			continue
		}

		if err := engine.Answer(resolveAnswer(prompt, line)); err != nil {
			if domain.HasCode(err, domain.CodeInvalidAnswer) {
				p.warn.Fprintf(p.out, "Please pick one of the options (1-%d).\n", len(prompt.Options))
				continue
			}
			return nil, err
		}
	}

	responses, err := engine.Finalize()
	if err != nil {
		return nil, err
	}
	report := scoring.Score(engine.Questions(), responses)
	if len(report.FreeTextNotes) == 0 {
		return report, nil
	}

	p.muted.Fprintln(p.out, "\nReviewing your notes...")
	verdicts, err := classifier.ClassifyAll(ctx, c, report.FreeTextNotes)
	if err != nil {
		return nil, err
	}
	return report.WithClassifications(verdicts), nil
}

// resolveAnswer maps an option number or a case-insensitive option text to the
// canonical option. Anything else is passed through for the engine to reject.
func resolveAnswer(prompt questionnaire.Prompt, line string) string {
	if prompt.IsFreeText {
		return line
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(prompt.Options) {
		return prompt.Options[n-1]
	}
	for _, opt := range prompt.Options {
		if strings.EqualFold(opt, line) {
			return opt
		}
	}
	return line
}

func writeExport(path, format string, cat *catalog.Catalog, report *domain.Report) error {
	content, _, err := export.Render(format, export.Document{
		Report:      report,
		Catalog:     cat,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
