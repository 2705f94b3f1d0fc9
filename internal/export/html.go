package export

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var htmlPolicy = bluemonday.UGCPolicy()

// RenderHTML converts the Markdown summary to sanitized HTML. Item names
// come from OCR output and are never trusted.
func RenderHTML(s Summary) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(s)), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}
