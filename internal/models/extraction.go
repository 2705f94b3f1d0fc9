package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RawExtraction is the receipt as returned by the vision model, before
// sanitization. Field names follow the JSON contract given to the model.
type RawExtraction struct {
	Items        []RawItem   `json:"items"`
	OtherCharges []RawCharge `json:"other_charges"`
	Total        Number      `json:"total"`
	Currency     string      `json:"currency"`
}

// RawItem is one extracted product line.
type RawItem struct {
	Name     string `json:"name"`
	Price    Number `json:"price"`
	Quantity Number `json:"quantity"`
}

// EffectiveQuantity is the quantity, with a missing (zero) value read as
// one. Negative quantities such as returns are kept.
func (i RawItem) EffectiveQuantity() decimal.Decimal {
	if i.Quantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return i.Quantity.Decimal
}

// LineTotal is price times EffectiveQuantity.
func (i RawItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(i.EffectiveQuantity())
}

// RawCharge is one extracted fee, tax, discount or adjustment line.
type RawCharge struct {
	Name   string `json:"name"`
	Amount Number `json:"amount"`
}

// Clone returns a deep copy so callers can modify the result freely.
func (r RawExtraction) Clone() RawExtraction {
	out := RawExtraction{Total: r.Total, Currency: r.Currency}
	if r.Items != nil {
		out.Items = make([]RawItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	if r.OtherCharges != nil {
		out.OtherCharges = make([]RawCharge, len(r.OtherCharges))
		copy(out.OtherCharges, r.OtherCharges)
	}
	return out
}

// Number is a decimal that decodes leniently from model output. It accepts
// JSON numbers, numeric strings and decorated strings such as "₹1,234.50".
// Anything that cannot be read becomes zero.
type Number struct {
	decimal.Decimal
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// NewNumber wraps a float64.
func NewNumber(f float64) Number {
	return Number{decimal.NewFromFloat(f)}
}

// ParseNumber strips everything except digits, sign and decimal point, then
// reads the leading number. It returns zero when nothing numeric remains.
func ParseNumber(s string) Number {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return Number{}
	}
	match = strings.TrimSuffix(match, ".")
	if strings.HasPrefix(match, "-.") {
		match = "-0" + match[1:]
	} else if strings.HasPrefix(match, ".") {
		match = "0" + match
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return Number{}
	}
	return Number{d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*n = Number{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = Number{}
			return nil
		}
		*n = ParseNumber(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			*n = Number{}
			return nil
		}
		*n = Number{d}
	}
	return nil
}

// MarshalJSON writes the value as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	f, _ := n.Decimal.Float64()
	return f
}
