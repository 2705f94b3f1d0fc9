package calculator

import (
	"sort"

	"github.com/mmynk/receiptsplit/internal/models"
)

// MemberBalance represents the balance information for one person.
type MemberBalance struct {
	PersonID   string
	TotalPaid  float64 // Assigned value of receipts this person paid for
	TotalOwed  float64 // This person's allocated share across paid receipts
	NetBalance float64 // Positive = owed money, Negative = owes money
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// SettleUp computes who owes whom across receipt groups that record a payer.
//
// Algorithm:
//   - For each group with a known payer: allocate the group's items with
//     CalculateSplits; the payer is credited with everything that was
//     assigned, and every person is debited with their share
//   - Groups without a payer, unassigned amounts and orphaned shares are ignored
//   - net = paid - owed, in cents
//   - Debts are simplified greedily: largest debtor pays largest creditor,
//     ties broken by person ID so the result is deterministic
func SettleUp(groups []models.ReceiptGroup, splits map[string]models.SplitAssignment, people []models.Person) ([]MemberBalance, []DebtEdge) {
	known := make(map[string]bool, len(people))
	for _, p := range people {
		known[p.ID] = true
	}

	paid := make(map[string]int64)
	owed := make(map[string]int64)

	for _, group := range groups {
		if group.PayerID == "" || !known[group.PayerID] {
			continue
		}

		result := CalculateSplits(group.Items, splits, people)
		paid[group.PayerID] += result.GrandCents - result.UnassignedCents - result.OrphanedCents
		for id, cents := range result.PersonCents {
			owed[id] += cents
		}
	}

	balances := make([]MemberBalance, 0, len(people))
	net := make(map[string]int64, len(people))
	for _, p := range people {
		net[p.ID] = paid[p.ID] - owed[p.ID]
		balances = append(balances, MemberBalance{
			PersonID:   p.ID,
			TotalPaid:  FromCents(paid[p.ID]),
			TotalOwed:  FromCents(owed[p.ID]),
			NetBalance: FromCents(net[p.ID]),
		})
	}

	return balances, simplifyDebts(net)
}

type ledgerEntry struct {
	id    string
	cents int64
}

// simplifyDebts matches debtors with creditors to minimize transactions.
func simplifyDebts(net map[string]int64) []DebtEdge {
	var creditors, debtors []ledgerEntry
	for id, cents := range net {
		switch {
		case cents > 0:
			creditors = append(creditors, ledgerEntry{id, cents})
		case cents < 0:
			debtors = append(debtors, ledgerEntry{id, -cents})
		}
	}
	byAmount := func(entries []ledgerEntry) func(i, j int) bool {
		return func(i, j int) bool {
			if entries[i].cents != entries[j].cents {
				return entries[i].cents > entries[j].cents
			}
			return entries[i].id < entries[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].cents, creditors[j].cents)
		edges = append(edges, DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: FromCents(amount),
		})

		debtors[i].cents -= amount
		creditors[j].cents -= amount
		if debtors[i].cents == 0 {
			i++
		}
		if creditors[j].cents == 0 {
			j++
		}
	}

	return edges
}
