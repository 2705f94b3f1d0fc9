package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.50", "12.5"},
		{"₹1,234.50", "1234.5"},
		{"-0.05", "-0.05"},
		{"Rs. 40", "0.4"}, // the abbreviation's dot survives stripping
		{"abc", "0"},
		{"", "0"},
		{"12-3", "12"},
		{".75", "0.75"},
		{"5.", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in).String())
		})
	}
}

func TestRawExtractionDecodesLooseNumbers(t *testing.T) {
	payload := `{
		"items": [
			{"name": "Milk", "price": "₹30.00", "quantity": 2},
			{"name": "Bread", "price": 45.5, "quantity": null},
			{"name": "Mystery", "price": "n/a"}
		],
		"other_charges": [{"name": "Delivery", "amount": "15"}],
		"total": "150.50",
		"currency": "INR"
	}`

	var raw RawExtraction
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	require.Len(t, raw.Items, 3)
	assert.Equal(t, "30", raw.Items[0].Price.String())
	assert.Equal(t, "2", raw.Items[0].Quantity.String())
	assert.Equal(t, "45.5", raw.Items[1].Price.String())
	assert.True(t, raw.Items[1].Quantity.IsZero())
	assert.True(t, raw.Items[2].Price.IsZero())
	assert.Equal(t, "15", raw.OtherCharges[0].Amount.String())
	assert.Equal(t, "150.5", raw.Total.String())
}

func TestNumberMarshalsAsBareNumber(t *testing.T) {
	out, err := json.Marshal(RawCharge{Name: "Round Off", Amount: NewNumber(-0.05)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Round Off","amount":-0.05}`, string(out))
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	orig := RawExtraction{Items: []RawItem{{Name: "Tea", Price: NewNumber(10)}}}
	cp := orig.Clone()
	cp.Items[0].Price = NewNumber(-10)

	assert.Equal(t, "10", orig.Items[0].Price.String())
}
