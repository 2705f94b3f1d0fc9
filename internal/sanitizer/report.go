package sanitizer

import "github.com/shopspring/decimal"

// SkipReason explains why the round-off line was left as it was.
type SkipReason string

const (
	SkipNoTotal             SkipReason = "no_total"
	SkipNoRoundOffLine      SkipReason = "no_round_off_line"
	SkipDiscrepancyTooLarge SkipReason = "discrepancy_too_large"
	SkipAlreadyBalanced     SkipReason = "already_balanced"
)

// Report describes the changes made by one Sanitize call.
type Report struct {
	Flipped  []FlippedLine
	RoundOff *RoundOffOutcome
}

// FlippedLine is a discount line whose sign was forced negative.
type FlippedLine struct {
	Name   string
	Before decimal.Decimal
	After  decimal.Decimal
}

// RoundOffOutcome records the reconciliation result.
type RoundOffOutcome struct {
	Name      string
	Before    decimal.Decimal
	Expected  decimal.Decimal
	After     decimal.Decimal
	Corrected bool
	Skipped   SkipReason
}

// RoundOffSkipped builds an outcome for a reconciliation that never found a
// line to check.
func RoundOffSkipped(reason SkipReason) *RoundOffOutcome {
	return &RoundOffOutcome{Skipped: reason}
}

// Changed reports whether the sanitizer modified anything.
func (r Report) Changed() bool {
	return len(r.Flipped) > 0 || (r.RoundOff != nil && r.RoundOff.Corrected)
}

// Mismatch reports whether the printed total could not be reconciled.
func (r Report) Mismatch() bool {
	return r.RoundOff != nil && r.RoundOff.Skipped == SkipDiscrepancyTooLarge
}
