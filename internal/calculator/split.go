package calculator

import (
	"math"

	"github.com/mmynk/receiptsplit/internal/models"
)

// SplitResult is the outcome of allocating a set of items among people.
// The float totals are derived from the cent totals in a single conversion.
type SplitResult struct {
	// PersonTotals maps every known person ID to the amount they owe.
	PersonTotals map[string]float64

	// UnassignedTotal is the part of the grand total nobody was assigned.
	UnassignedTotal float64

	// GrandTotal is the sum of all item prices, including negative ones.
	GrandTotal float64

	// OrphanedTotal is the part allocated to person IDs that no longer exist.
	// It is not credited to anyone.
	OrphanedTotal float64

	PersonCents     map[string]int64
	UnassignedCents int64
	GrandCents      int64
	OrphanedCents   int64
}

// ToCents converts a currency amount to integer minor units, rounding to the
// nearest cent. Half cents round up toward +Inf, so -0.125 becomes -12.
func ToCents(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// FromCents converts integer minor units back to a currency amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Allocate splits cents among n assignees. Every assignee gets
// floor(cents/n); the first cents-floor*n assignees get one extra cent.
// Floor division keeps the remainder in [0, n) for negative amounts too.
func Allocate(cents int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	count := int64(n)
	base := cents / count
	if cents%count != 0 && cents < 0 {
		base--
	}
	remainder := cents - base*count

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// CalculateSplits computes how much each person owes for the given items.
//
// Algorithm:
//   - Prices are converted to cents once and summed into the grand total
//   - Items without an assignment, or with nobody picked, go to unassigned
//   - IsAll items are shared by the people list as it is now, in list order
//   - Each item is divided with Allocate, so the leftover cents go to the
//     first assignees in iteration order
//   - Shares for IDs that are not in people are counted as orphaned
//
// Money is conserved in cents:
// GrandCents == Σ PersonCents + UnassignedCents + OrphanedCents.
func CalculateSplits(items []models.Item, splits map[string]models.SplitAssignment, people []models.Person) SplitResult {
	everyone := make([]string, 0, len(people))
	known := make(map[string]bool, len(people))
	for _, p := range people {
		everyone = append(everyone, p.ID)
		known[p.ID] = true
	}

	shares := make(map[string]int64)
	var unassignedCents, grandCents int64

	for _, item := range items {
		priceCents := ToCents(item.Price)
		grandCents += priceCents

		split, ok := splits[item.ID]
		if !ok || split.IsUnassigned() {
			unassignedCents += priceCents
			continue
		}

		assignedIDs := split.PersonIDs
		if split.IsAll {
			assignedIDs = everyone
		}
		if len(assignedIDs) == 0 {
			// IsAll with nobody in the people list
			unassignedCents += priceCents
			continue
		}

		for i, share := range Allocate(priceCents, len(assignedIDs)) {
			shares[assignedIDs[i]] += share
		}
	}

	result := SplitResult{
		PersonTotals:    make(map[string]float64, len(people)),
		PersonCents:     make(map[string]int64, len(people)),
		UnassignedCents: unassignedCents,
		GrandCents:      grandCents,
	}
	for _, id := range everyone {
		result.PersonCents[id] = 0
	}
	for id, cents := range shares {
		if !known[id] {
			result.OrphanedCents += cents
			continue
		}
		result.PersonCents[id] = cents
	}

	for id, cents := range result.PersonCents {
		result.PersonTotals[id] = FromCents(cents)
	}
	result.UnassignedTotal = FromCents(result.UnassignedCents)
	result.GrandTotal = FromCents(result.GrandCents)
	result.OrphanedTotal = FromCents(result.OrphanedCents)

	return result
}
