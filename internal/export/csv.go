package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

type csvRow struct {
	Person   string `csv:"Person"`
	Amount   string `csv:"Amount"`
	Currency string `csv:"Currency"`
}

// RenderCSV emits one row per person followed by an Unassigned row.
func RenderCSV(s Summary) (string, error) {
	rows := make([]csvRow, 0, len(s.People)+1)
	for _, p := range s.People {
		rows = append(rows, csvRow{Person: p.Name, Amount: fmt.Sprintf("%.2f", p.Amount), Currency: s.Currency})
	}
	rows = append(rows, csvRow{Person: unassignedText, Amount: fmt.Sprintf("%.2f", s.Unassigned), Currency: s.Currency})

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("failed to marshal csv: %w", err)
	}
	return out, nil
}
