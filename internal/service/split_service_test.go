package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestCalculateSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")
	bo := env.addPerson(t, "Bo")
	chen := env.addPerson(t, "Chen")

	added := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items: []models.Item{
			{Name: "Pizza", Price: 100},
			{Name: "Cola", Price: 0.05},
			{Name: "Bag", Price: 5},
		},
	})
	cola, bag := added.Receipt.Items[1], added.Receipt.Items[2]

	_, err := env.splits.UpdateSplit.CallUnary(ctx, connect.NewRequest(&UpdateSplitRequest{ItemID: cola.ID, PersonIDs: []string{bo.ID, asha.ID}}))
	require.NoError(t, err)
	_, err = env.splits.UpdateSplit.CallUnary(ctx, connect.NewRequest(&UpdateSplitRequest{ItemID: bag.ID}))
	require.NoError(t, err)

	resp, err := env.splits.CalculateSplits.CallUnary(ctx, connect.NewRequest(&CalculateSplitsRequest{}))
	require.NoError(t, err)
	msg := resp.Msg

	// Pizza 100.00 / 3 = 33.34, 33.33, 33.33; Cola 0.05 / [Bo, Asha] = 0.03, 0.02.
	assert.InDelta(t, 33.36, msg.PersonTotals[asha.ID], 1e-9)
	assert.InDelta(t, 33.36, msg.PersonTotals[bo.ID], 1e-9)
	assert.InDelta(t, 33.33, msg.PersonTotals[chen.ID], 1e-9)
	assert.InDelta(t, 5.0, msg.UnassignedTotal, 1e-9)
	assert.InDelta(t, 105.05, msg.GrandTotal, 1e-9)

	require.Len(t, msg.Shares, 3)
	assert.Equal(t, "Asha", msg.Shares[0].Name)
}

func TestCalculateSplitsForReceipts(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")

	first := env.addReceipt(t, &AddReceiptRequest{Platform: "Zepto", Date: "2024-05-01", Items: []models.Item{{Name: "A", Price: 10}}})
	env.addReceipt(t, &AddReceiptRequest{Platform: "Zepto", Date: "2024-05-02", Items: []models.Item{{Name: "B", Price: 20}}})

	resp, err := env.splits.CalculateSplits.CallUnary(ctx, connect.NewRequest(&CalculateSplitsRequest{ReceiptIDs: []string{first.Receipt.ID}}))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, resp.Msg.PersonTotals[asha.ID], 1e-9)

	_, err = env.splits.CalculateSplits.CallUnary(ctx, connect.NewRequest(&CalculateSplitsRequest{ReceiptIDs: []string{"missing"}}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRemovedPersonIsOrphaned(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")
	bo := env.addPerson(t, "Bo")

	added := env.addReceipt(t, &AddReceiptRequest{Platform: "Zepto", Date: "2024-05-01", Items: []models.Item{{Name: "Milk", Price: 10}}})
	item := added.Receipt.Items[0]
	_, err := env.splits.UpdateSplit.CallUnary(ctx, connect.NewRequest(&UpdateSplitRequest{ItemID: item.ID, PersonIDs: []string{asha.ID, bo.ID}}))
	require.NoError(t, err)
	_, err = env.people.RemovePerson.CallUnary(ctx, connect.NewRequest(&RemovePersonRequest{ID: bo.ID}))
	require.NoError(t, err)

	resp, err := env.splits.CalculateSplits.CallUnary(ctx, connect.NewRequest(&CalculateSplitsRequest{}))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, resp.Msg.PersonTotals[asha.ID], 1e-9)
	assert.InDelta(t, 5.0, resp.Msg.OrphanedTotal, 1e-9)
	assert.NotContains(t, resp.Msg.PersonTotals, bo.ID)
}

func TestUpdateSplitUnknownItem(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.splits.UpdateSplit.CallUnary(context.Background(), connect.NewRequest(&UpdateSplitRequest{ItemID: "missing", IsAll: true}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestSettleUp(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")
	bo := env.addPerson(t, "Bo")

	added := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		PayerID:  asha.ID,
		Items:    []models.Item{{Name: "Groceries", Price: 100}},
	})
	require.Equal(t, asha.ID, added.Receipt.PayerID)

	resp, err := env.splits.SettleUp.CallUnary(ctx, connect.NewRequest(&SettleUpRequest{}))
	require.NoError(t, err)

	require.Len(t, resp.Msg.Debts, 1)
	assert.Equal(t, Debt{From: bo.ID, To: asha.ID, Amount: 50}, resp.Msg.Debts[0])
}

func TestExport(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.addPerson(t, "Asha")
	env.addReceipt(t, &AddReceiptRequest{Platform: "Zepto", Date: "2024-05-01", Items: []models.Item{{Name: "Milk", Price: 60}}})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{format: "", contentType: "text/plain; charset=utf-8", contains: "ZEPTO"},
		{format: "markdown", contentType: "text/markdown; charset=utf-8", contains: "- **Milk**"},
		{format: "html", contentType: "text/html; charset=utf-8", contains: "<h1>Zepto</h1>"},
		{format: "csv", contentType: "text/csv; charset=utf-8", contains: "Asha,60.00,INR"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := env.splits.Export.CallUnary(ctx, connect.NewRequest(&ExportRequest{Format: tt.format}))
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, resp.Msg.ContentType)
			assert.True(t, strings.Contains(resp.Msg.Content, tt.contains), resp.Msg.Content)
		})
	}

	_, err := env.splits.Export.CallUnary(ctx, connect.NewRequest(&ExportRequest{Format: "pdf"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
