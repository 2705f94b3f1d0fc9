// Package export renders a shareable summary of receipts and who owes what.
//
// Every format is built from the same Summary, whose totals come from the
// allocation engine so exports never disagree with the split screen.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

// Format selects an export renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
)

// ErrUnknownFormat is returned for formats other than the ones above.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name, case-insensitively. Empty means text;
// "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Generate renders groups, splits and people in the given format.
func Generate(groups []models.ReceiptGroup, splits map[string]models.SplitAssignment, people []models.Person, format Format) (string, error) {
	summary := Build(groups, splits, people)

	switch format {
	case FormatText:
		return RenderText(summary), nil
	case FormatMarkdown:
		return RenderMarkdown(summary), nil
	case FormatHTML:
		return RenderHTML(summary)
	case FormatCSV:
		return RenderCSV(summary)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}
