package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// CurrencySymbol returns the narrow symbol for an ISO 4217 code, e.g. "₹"
// for INR. Unknown codes are returned as "XYZ " so amounts stay readable.
func CurrencySymbol(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code) + " "
	}
	// Formats as "<symbol> <amount>"; only the symbol is kept.
	fields := strings.Fields(fmt.Sprint(currency.NarrowSymbol(unit.Amount(0))))
	if len(fields) == 0 {
		return unit.String() + " "
	}
	return fields[0]
}

func money(symbol string, amount float64) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
