package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestSettleUp(t *testing.T) {
	ppl := people("alice", "bob", "carol")

	groups := []models.ReceiptGroup{
		{
			ID:      "g1",
			PayerID: "alice",
			Items: []models.Item{
				{ID: "i1", Price: 90},
				{ID: "i2", Price: 30},
			},
		},
		{
			ID:      "g2",
			PayerID: "bob",
			Items:   []models.Item{{ID: "i3", Price: 60}},
		},
		{
			ID:    "g3",
			Items: []models.Item{{ID: "i4", Price: 999}},
		},
	}
	splits := map[string]models.SplitAssignment{
		"i1": models.NewDefaultAssignment("i1"),
		"i2": assign("i2", "carol"),
		"i3": assign("i3", "alice", "carol"),
		"i4": models.NewDefaultAssignment("i4"),
	}

	balances, edges := SettleUp(groups, splits, ppl)

	// alice paid 120, owes 30 + 30 = 60
	// bob paid 60, owes 30
	// carol owes 30 + 30 + 30 = 90
	require.Len(t, balances, 3)
	assert.Equal(t, MemberBalance{PersonID: "alice", TotalPaid: 120, TotalOwed: 60, NetBalance: 60}, balances[0])
	assert.Equal(t, MemberBalance{PersonID: "bob", TotalPaid: 60, TotalOwed: 30, NetBalance: 30}, balances[1])
	assert.Equal(t, MemberBalance{PersonID: "carol", TotalPaid: 0, TotalOwed: 90, NetBalance: -90}, balances[2])

	assert.Equal(t, []DebtEdge{
		{From: "carol", To: "alice", Amount: 60},
		{From: "carol", To: "bob", Amount: 30},
	}, edges)
}

func TestSettleUp_NoPayers(t *testing.T) {
	groups := []models.ReceiptGroup{{ID: "g1", Items: []models.Item{{ID: "i1", Price: 10}}}}
	splits := map[string]models.SplitAssignment{"i1": models.NewDefaultAssignment("i1")}

	balances, edges := SettleUp(groups, splits, people("alice", "bob"))

	assert.Len(t, balances, 2)
	assert.Empty(t, edges)
}

func TestSettleUp_UnknownPayerIsIgnored(t *testing.T) {
	groups := []models.ReceiptGroup{{ID: "g1", PayerID: "ghost", Items: []models.Item{{ID: "i1", Price: 10}}}}
	splits := map[string]models.SplitAssignment{"i1": models.NewDefaultAssignment("i1")}

	_, edges := SettleUp(groups, splits, people("alice"))

	assert.Empty(t, edges)
}
