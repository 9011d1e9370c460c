package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/questionnaire"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// printer writes colored output, or plain text when the target is not a terminal.
type printer struct {
	out     io.Writer
	heading *color.Color
	muted   *color.Color
	warn    *color.Color
	tiers   map[domain.Tier]*color.Color
	classes map[domain.Classification]*color.Color
}

func newPrinter(out io.Writer, useColor bool) *printer {
	p := &printer{
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		muted:   color.New(color.Faint),
		warn:    color.New(color.FgYellow),
		tiers: map[domain.Tier]*color.Color{
			domain.TierLow:      color.New(color.FgGreen),
			domain.TierModerate: color.New(color.FgYellow),
			domain.TierHigh:     color.New(color.FgRed, color.Bold),
		},
		classes: map[domain.Classification]*color.Color{
			domain.ClassificationProtective: color.New(color.FgGreen),
			domain.ClassificationNeutral:    color.New(color.FgBlue),
			domain.ClassificationHarmful:    color.New(color.FgRed),
			domain.ClassificationUnknown:    color.New(color.Faint),
		},
	}
	for _, c := range p.all() {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) all() []*color.Color {
	colors := []*color.Color{p.heading, p.muted, p.warn}
	for _, c := range p.tiers {
		colors = append(colors, c)
	}
	for _, c := range p.classes {
		colors = append(colors, c)
	}
	return colors
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) tier(t domain.Tier) string {
	c, ok := p.tiers[t]
	if !ok {
		return string(t)
	}
	return c.Sprint(string(t))
}

func (p *printer) printPrompt(prompt questionnaire.Prompt, answered, total int) {
	fmt.Fprintln(p.out)
	if prompt.IsFollowUp {
		fmt.Fprintf(p.out, "   %s\n", prompt.Text)
	} else {
		p.heading.Fprintf(p.out, "[%d/%d] ", answered+1, total)
		fmt.Fprintln(p.out, prompt.Text)
	}
	if prompt.Hint != "" {
		p.muted.Fprintf(p.out, "   %s\n", prompt.Hint)
	}
	if prompt.IsFreeText {
		p.muted.Fprintln(p.out, "   (type your answer, or press Enter to skip)")
	}
	for i, opt := range prompt.Options {
		fmt.Fprintf(p.out, "   %d) %s\n", i+1, opt)
	}
	fmt.Fprint(p.out, "> ")
}

func (p *printer) printQuestions(cat *catalog.Catalog) {
	p.heading.Fprintln(p.out, cat.Title)
	for _, q := range cat.Questions {
		fmt.Fprintf(p.out, "\n%d. %s", q.ID, q.Text)
		if q.Category != "" {
			p.muted.Fprintf(p.out, "  [%s]", q.Category)
		}
		fmt.Fprintln(p.out)
		if q.IsFreeText {
			p.muted.Fprintln(p.out, "   free text")
		}
		for _, opt := range q.Options {
			fmt.Fprintf(p.out, "   - %s (%d)\n", opt, q.Points[opt])
		}
		if q.FollowUp != nil {
			fmt.Fprintf(p.out, "   If Yes: %s\n", q.FollowUp.Text)
			for _, opt := range q.FollowUp.Options {
				fmt.Fprintf(p.out, "     - %s (%d)\n", opt, q.FollowUp.Points[opt])
			}
		}
	}
}

func (p *printer) printReport(cat *catalog.Catalog, report *domain.Report) {
	fmt.Fprintln(p.out)
	p.heading.Fprintln(p.out, cat.Title)
	fmt.Fprintln(p.out, strings.Repeat("=", len([]rune(cat.Title))))

	if report.OverallScore.Applicable {
		fmt.Fprintf(p.out, "Safety score: %d / 100 (%d of %d risk points)\n",
			report.OverallScore.Value, report.Earned, report.Possible)
		fmt.Fprintf(p.out, "Overall risk: %s\n", p.tier(report.OverallRisk))
	} else {
		fmt.Fprintln(p.out, "Safety score: N/A (no scored answers)")
	}

	fmt.Fprintln(p.out)
	p.heading.Fprintln(p.out, "Categories")
	for _, entry := range report.CategoryScores {
		label := entry.Category
		if advice, ok := cat.AdviceFor(entry.Category); ok && advice.Icon != "" {
			label = advice.Icon + " " + label
		}
		fmt.Fprintf(p.out, "  %-24s %3d  %s\n", label, entry.EarnedPoints, p.tier(entry.Tier))
	}

	if len(report.CategoryScores) > 0 {
		fmt.Fprintln(p.out)
		p.heading.Fprintln(p.out, "Recommendations")
		for _, entry := range report.CategoryScores {
			advice, ok := cat.AdviceFor(entry.Category)
			if !ok {
				continue
			}
			fmt.Fprintf(p.out, "  • %s (%s): %s\n", entry.Category, p.tier(entry.Tier), advice.Advice)
			if link := cat.LinkFor(entry.Category); link != "" {
				p.muted.Fprintf(p.out, "    %s\n", link)
			}
		}
	}

	if len(report.FreeTextNotes) > 0 {
		fmt.Fprintln(p.out)
		p.heading.Fprintln(p.out, "Your notes")
		for _, note := range report.FreeTextNotes {
			fmt.Fprintf(p.out, "  %q\n", note)
			verdict, ok := report.NoteClassifications[note]
			if !ok {
				continue
			}
			c, ok := p.classes[verdict.Classification]
			if !ok {
				c = p.muted
			}
			fmt.Fprintf(p.out, "    Assessment: %s\n", c.Sprint(string(verdict.Classification)))
			fmt.Fprintf(p.out, "    Why: %s\n", verdict.Explanation)
			fmt.Fprintf(p.out, "    Advice: %s\n", verdict.DoctorAdvice)
		}
	}

	fmt.Fprintln(p.out)
	p.muted.Fprintln(p.out, "This scorecard is not a medical diagnosis. Talk to your healthcare provider about your results.")
}
