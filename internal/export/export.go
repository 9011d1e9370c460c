// Package export renders a scored report as a Markdown or HTML document.
package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Supported document formats
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
)

// Document is everything a rendered report shows.
type Document struct {
	Report      *domain.Report
	Catalog     *catalog.Catalog
	GeneratedAt time.Time
	// Pending marks note classification as still running.
	Pending bool
}

// Render produces the document in format and the matching content type.
func Render(format string, doc Document) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case FormatMarkdown, "markdown", "":
		return Markdown(doc), "text/markdown; charset=utf-8", nil
	case FormatHTML:
		out, err := HTML(doc)
		if err != nil {
			return nil, "", err
		}
		return out, "text/html; charset=utf-8", nil
	default:
		return nil, "", domain.NewInvalidFormatError("format", format)
	}
}

// FileName returns a download name for a document generated at t.
func FileName(format string, t time.Time) string {
	ext := FormatMarkdown
	if strings.EqualFold(format, FormatHTML) {
		ext = FormatHTML
	}
	return fmt.Sprintf("fall-risk-report-%s.%s", t.UTC().Format("20060102-150405"), ext)
}

// Markdown renders doc as CommonMark with GFM tables.
func Markdown(doc Document) []byte {
	var b bytes.Buffer
	r := doc.Report
	title := "Risk Scorecard"
	if doc.Catalog != nil && doc.Catalog.Title != "" {
		title = doc.Catalog.Title
	}

	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	fmt.Fprintf(&b, "_Generated %s_\n\n", doc.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))

	b.WriteString("## Overall result\n\n")
	if r.OverallScore.Applicable {
		fmt.Fprintf(&b, "- **Safety score:** %d / 100\n", r.OverallScore.Value)
		fmt.Fprintf(&b, "- **Overall risk:** %s\n", r.OverallRisk)
	} else {
		b.WriteString("- **Safety score:** N/A\n")
		b.WriteString("- **Overall risk:** not enough answers to estimate\n")
	}
	fmt.Fprintf(&b, "- **Risk points:** %d of %d possible\n\n", r.Earned, r.Possible)

	if len(r.CategoryScores) > 0 {
		b.WriteString("## Categories\n\n")
		b.WriteString("| Category | Points | Risk |\n")
		b.WriteString("|---|---:|---|\n")
		for _, c := range r.CategoryScores {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escape(categoryLabel(doc.Catalog, c.Category)), c.EarnedPoints, c.Tier)
		}
		b.WriteString("\n")
		writeRecommendations(&b, doc)
	}

	writeNotes(&b, doc)

	b.WriteString("---\n\n")
	b.WriteString("This screening is not a diagnosis. Share it with your healthcare provider.\n")
	return b.Bytes()
}

// HTML renders the Markdown document to a standalone HTML page.
func HTML(doc Document) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert(Markdown(doc), &body); err != nil {
		return nil, fmt.Errorf("failed to convert report to HTML: %w", err)
	}

	title := "Risk Scorecard"
	if doc.Catalog != nil && doc.Catalog.Title != "" {
		title = doc.Catalog.Title
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}" +
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .75rem}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

func writeRecommendations(b *bytes.Buffer, doc Document) {
	if doc.Catalog == nil {
		return
	}
	var wrote bool
	for _, c := range doc.Report.CategoryScores {
		advice, ok := doc.Catalog.AdviceFor(c.Category)
		if !ok || advice.Advice == "" {
			continue
		}
		if !wrote {
			b.WriteString("## Recommendations\n\n")
			wrote = true
		}
		fmt.Fprintf(b, "- **%s** (%s risk): %s", escape(c.Category), c.Tier, escape(advice.Advice))
		if link := doc.Catalog.LinkFor(c.Category); link != "" {
			fmt.Fprintf(b, " [Explore products](<%s>)", link)
		}
		b.WriteString("\n")
	}
	if wrote {
		b.WriteString("\n")
	}
}

func writeNotes(b *bytes.Buffer, doc Document) {
	r := doc.Report
	if len(r.FreeTextNotes) == 0 {
		return
	}
	b.WriteString("## Your notes\n\n")
	if doc.Pending {
		b.WriteString("_Note analysis is still in progress._\n\n")
	}
	for _, note := range r.FreeTextNotes {
		fmt.Fprintf(b, "> %s\n\n", escape(strings.Join(strings.Fields(note), " ")))
		verdict, ok := r.NoteClassifications[note]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "- **Assessment:** %s\n", verdict.Classification)
		if verdict.Explanation != "" {
			fmt.Fprintf(b, "- **Why:** %s\n", escape(verdict.Explanation))
		}
		if verdict.DoctorAdvice != "" {
			fmt.Fprintf(b, "- **Advice:** %s\n", escape(verdict.DoctorAdvice))
		}
		b.WriteString("\n")
	}
}

func categoryLabel(c *catalog.Catalog, category string) string {
	if c == nil {
		return category
	}
	if advice, ok := c.AdviceFor(category); ok && advice.Icon != "" {
		return advice.Icon + " " + category
	}
	return category
}

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

// escape keeps user text from being read as Markdown markup.
func escape(s string) string {
	return markdownSpecial.Replace(s)
}
