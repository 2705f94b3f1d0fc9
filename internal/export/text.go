package export

import (
	"fmt"
	"strings"
)

// RenderText produces a plain summary suited to chat apps.
func RenderText(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧾 %s\n\n", strings.ToUpper(s.Title))
	b.WriteString("--- BREAKDOWN ---\n")

	for _, sec := range s.Sections {
		fmt.Fprintf(&b, "\n📍 %s (%s)\n", sec.Platform, sec.Date)
		for _, l := range sec.Lines {
			fmt.Fprintf(&b, "▫️ %s: %s (%s)\n", l.Name, money(s.Symbol, l.Price), l.Assignees)
		}
	}

	b.WriteString("\n--- FINAL SPLITS ---\n")
	for _, sh := range s.Shares {
		fmt.Fprintf(&b, "👤 %-10s : %s\n", sh.Name, money(s.Symbol, sh.Amount))
	}
	if s.Unassigned > 0 {
		fmt.Fprintf(&b, "❓ %-10s : %s\n", unassignedText, money(s.Symbol, s.Unassigned))
	}

	fmt.Fprintf(&b, "\n💰 Total: %s", money(s.Symbol, s.GrandTotal))
	return strings.TrimSpace(b.String())
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

// escapeMarkdown backslash-escapes the characters that would otherwise
// open emphasis, code, links or raw HTML inside user-supplied names.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderMarkdown produces the same summary as Markdown. Names are escaped.
func RenderMarkdown(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(s.Title))
	b.WriteString("## Breakdown\n")

	for _, sec := range s.Sections {
		fmt.Fprintf(&b, "\n### %s (%s)\n", escapeMarkdown(sec.Platform), escapeMarkdown(sec.Date))
		for _, l := range sec.Lines {
			fmt.Fprintf(&b, "- **%s**: %s _(%s)_\n", escapeMarkdown(l.Name), money(s.Symbol, l.Price), escapeMarkdown(l.Assignees))
		}
	}

	b.WriteString("\n## Final Splits\n")
	for _, sh := range s.Shares {
		fmt.Fprintf(&b, "- **%s**: %s\n", escapeMarkdown(sh.Name), money(s.Symbol, sh.Amount))
	}
	if s.Unassigned > 0 {
		fmt.Fprintf(&b, "- **%s**: %s\n", unassignedText, money(s.Symbol, s.Unassigned))
	}

	fmt.Fprintf(&b, "\n💰 Total: %s", money(s.Symbol, s.GrandTotal))
	return strings.TrimSpace(b.String())
}
