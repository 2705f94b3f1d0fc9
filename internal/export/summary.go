package export

import (
	"strings"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

const (
	defaultTitle   = "Receipt Split"
	everyoneLabel  = "Everyone"
	unassignedText = "Unassigned"
	unknownPerson  = "Unknown"
	noDate         = "No Date"
)

// Summary is the format-independent content of an export.
type Summary struct {
	Title    string
	Currency string
	Symbol   string
	Sections []Section

	// Shares lists people with a positive total, in people order.
	Shares     []Share
	Unassigned float64
	Orphaned   float64
	GrandTotal float64

	// People lists every person with their total, including zero and
	// negative totals. CSV uses it.
	People []Share
}

// Section is one receipt group.
type Section struct {
	Platform string
	Date     string
	Lines    []Line
}

// Line is one item and who it is assigned to.
type Line struct {
	Name      string
	Price     float64
	Assignees string
}

// Share is one person's total.
type Share struct {
	PersonID string
	Name     string
	Amount   float64
}

// Build allocates every item of every group and collects the result.
func Build(groups []models.ReceiptGroup, splits map[string]models.SplitAssignment, people []models.Person) Summary {
	var items []models.Item
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	result := calculator.CalculateSplits(items, splits, people)

	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	code := summaryCurrency(groups)
	s := Summary{
		Title:      title(groups),
		Currency:   code,
		Symbol:     CurrencySymbol(code),
		Unassigned: result.UnassignedTotal,
		Orphaned:   result.OrphanedTotal,
		GrandTotal: result.GrandTotal,
	}

	for _, g := range groups {
		sec := Section{Platform: g.Platform, Date: g.Date}
		if sec.Date == "" {
			sec.Date = noDate
		}
		for _, it := range g.Items {
			sec.Lines = append(sec.Lines, Line{
				Name:      it.Name,
				Price:     it.Price,
				Assignees: assignees(splits, it.ID, names),
			})
		}
		s.Sections = append(s.Sections, sec)
	}

	for _, p := range people {
		share := Share{PersonID: p.ID, Name: p.Name, Amount: result.PersonTotals[p.ID]}
		s.People = append(s.People, share)
		if share.Amount > 0 {
			s.Shares = append(s.Shares, share)
		}
	}

	return s
}

// title joins the distinct platforms in first-seen order.
func title(groups []models.ReceiptGroup) string {
	seen := make(map[string]bool)
	var platforms []string
	for _, g := range groups {
		if seen[g.Platform] {
			continue
		}
		seen[g.Platform] = true
		platforms = append(platforms, g.Platform)
	}
	t := strings.Join(platforms, " + ")
	if t == "" {
		return defaultTitle
	}
	return t
}

func assignees(splits map[string]models.SplitAssignment, itemID string, names map[string]string) string {
	split, ok := splits[itemID]
	if !ok {
		return unassignedText
	}
	if split.IsAll {
		return everyoneLabel
	}
	if len(split.PersonIDs) == 0 {
		return unassignedText
	}
	out := make([]string, len(split.PersonIDs))
	for i, id := range split.PersonIDs {
		name, ok := names[id]
		if !ok {
			name = unknownPerson
		}
		out[i] = name
	}
	return strings.Join(out, ", ")
}

// summaryCurrency is the currency of the first group that names one.
func summaryCurrency(groups []models.ReceiptGroup) string {
	for _, g := range groups {
		if g.Currency != "" {
			return g.Currency
		}
	}
	return "INR"
}
