// Package sanitizer repairs receipt extractions returned by the vision model.
//
// Two passes run over a RawExtraction:
//
//  1. Discount sign enforcement: lines whose name reads like a discount
//     ("Diwali Discount", "Coupon", "Buy 1 Get 1 off") are forced negative.
//     Round-off lines are excluded first so "Round Off" is never treated as
//     an "off" discount.
//  2. Round-off reconciliation: the single round-off line is recomputed so
//     that all lines add up to the printed total, but only when the gap is
//     small enough to be a rounding artifact.
//
// The sanitizer is best effort: it never fails and never invents lines.
package sanitizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

const (
	// DefaultRoundOffThreshold is the largest gap (exclusive, in currency
	// units) between the printed total and the line sum that is still
	// treated as rounding. Larger gaps mean a line was missed or misread.
	DefaultRoundOffThreshold = 1.0

	// DefaultEpsilon is the smallest change worth writing back to the
	// round-off line.
	DefaultEpsilon = 0.001
)

var (
	discountPattern  = regexp.MustCompile(`(?i)\b(discount|savings?|coupon|promo|off|less)\b`)
	roundOffKeywords = []string{"round off", "rounding", "roundoff", "adjustment"}
)

// IsRoundOff reports whether a line name describes a rounding adjustment.
func IsRoundOff(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range roundOffKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsDiscount reports whether a line name describes a discount. Round-off
// lines are never discounts.
func IsDiscount(name string) bool {
	return !IsRoundOff(name) && discountPattern.MatchString(name)
}

// Options tunes the reconciliation heuristics.
type Options struct {
	RoundOffThreshold float64
	Epsilon           float64
}

// DefaultOptions returns the standard heuristics.
func DefaultOptions() Options {
	return Options{
		RoundOffThreshold: DefaultRoundOffThreshold,
		Epsilon:           DefaultEpsilon,
	}
}

// Sanitizer applies the repair passes with a fixed set of options.
// It holds no mutable state and is safe for concurrent use.
type Sanitizer struct {
	threshold decimal.Decimal
	epsilon   decimal.Decimal
}

// New creates a Sanitizer. Non-positive options fall back to the defaults.
func New(opts Options) *Sanitizer {
	if opts.RoundOffThreshold <= 0 {
		opts.RoundOffThreshold = DefaultRoundOffThreshold
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	return &Sanitizer{
		threshold: decimal.NewFromFloat(opts.RoundOffThreshold),
		epsilon:   decimal.NewFromFloat(opts.Epsilon),
	}
}

var defaultSanitizer = New(DefaultOptions())

// Sanitize repairs raw with the default options. The input is not modified.
func Sanitize(raw models.RawExtraction) models.RawExtraction {
	out, _ := defaultSanitizer.Sanitize(raw)
	return out
}

// Sanitize repairs a copy of raw and reports what it changed.
func (s *Sanitizer) Sanitize(raw models.RawExtraction) (models.RawExtraction, Report) {
	out := raw.Clone()
	var report Report

	s.enforceDiscountSigns(&out, &report)
	s.reconcileRoundOff(&out, &report)

	return out, report
}

func (s *Sanitizer) enforceDiscountSigns(data *models.RawExtraction, report *Report) {
	for i := range data.Items {
		item := &data.Items[i]
		if IsDiscount(item.Name) && item.Price.IsPositive() {
			report.Flipped = append(report.Flipped, FlippedLine{
				Name: item.Name, Before: item.Price.Decimal, After: item.Price.Neg(),
			})
			item.Price = models.Number{Decimal: item.Price.Neg()}
		}
	}
	for i := range data.OtherCharges {
		charge := &data.OtherCharges[i]
		if IsDiscount(charge.Name) && charge.Amount.IsPositive() {
			report.Flipped = append(report.Flipped, FlippedLine{
				Name: charge.Name, Before: charge.Amount.Decimal, After: charge.Amount.Neg(),
			})
			charge.Amount = models.Number{Decimal: charge.Amount.Neg()}
		}
	}
}

func (s *Sanitizer) reconcileRoundOff(data *models.RawExtraction, report *Report) {
	total := data.Total.Decimal
	if total.IsZero() {
		report.RoundOff = RoundOffSkipped(SkipNoTotal)
		return
	}

	sum := decimal.Zero
	// The balancing line is the last round-off line seen, items before charges.
	var roundOff *models.Number
	var roundOffName string

	for i := range data.Items {
		item := &data.Items[i]
		if IsRoundOff(item.Name) {
			roundOff, roundOffName = &item.Price, item.Name
			continue
		}
		sum = sum.Add(item.LineTotal())
	}
	for i := range data.OtherCharges {
		charge := &data.OtherCharges[i]
		if IsRoundOff(charge.Name) {
			roundOff, roundOffName = &charge.Amount, charge.Name
			continue
		}
		sum = sum.Add(charge.Amount.Decimal)
	}

	if roundOff == nil {
		report.RoundOff = RoundOffSkipped(SkipNoRoundOffLine)
		return
	}

	expected := total.Sub(sum)
	if expected.Abs().GreaterThanOrEqual(s.threshold) {
		report.RoundOff = &RoundOffOutcome{
			Name:     roundOffName,
			Before:   roundOff.Decimal,
			Expected: expected,
			Skipped:  SkipDiscrepancyTooLarge,
		}
		return
	}

	if roundOff.Sub(expected).Abs().LessThanOrEqual(s.epsilon) {
		report.RoundOff = &RoundOffOutcome{
			Name:     roundOffName,
			Before:   roundOff.Decimal,
			Expected: expected,
			Skipped:  SkipAlreadyBalanced,
		}
		return
	}

	corrected := expected.Round(2)
	report.RoundOff = &RoundOffOutcome{
		Name:      roundOffName,
		Before:    roundOff.Decimal,
		Expected:  expected,
		After:     corrected,
		Corrected: true,
	}
	*roundOff = models.Number{Decimal: corrected}
}
