package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/sanitizer"
)

func TestAddReceiptCreatesDefaultSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items: []models.Item{
			{Name: "Milk", Price: 60},
			{Name: "Bread", Price: 40},
		},
	})

	assert.False(t, resp.Merged)
	assert.Equal(t, "INR", resp.Receipt.Currency)
	require.Len(t, resp.Receipt.Items, 2)

	splits, err := env.splits.ListSplits.CallUnary(ctx, connect.NewRequest(&ListSplitsRequest{}))
	require.NoError(t, err)
	for _, item := range resp.Receipt.Items {
		split, ok := splits.Msg.Splits[item.ID]
		require.True(t, ok, item.Name)
		assert.True(t, split.IsAll)
		assert.Empty(t, split.PersonIDs)
	}
}

func TestAddReceiptMergesSamePlatformAndDate(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	first := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items:    []models.Item{{Name: "Milk", Price: 60}},
	})
	second := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items:    []models.Item{{ID: "client-side-id", Name: "Eggs", Price: 90}},
	})
	other := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-02",
		Items:    []models.Item{{Name: "Tea", Price: 20}},
	})

	assert.True(t, second.Merged)
	assert.Equal(t, first.Receipt.ID, second.Receipt.ID)
	require.Len(t, second.Receipt.Items, 2)
	assert.Equal(t, "Milk", second.Receipt.Items[0].Name)
	assert.Equal(t, "Eggs", second.Receipt.Items[1].Name)
	assert.NotEqual(t, "client-side-id", second.Receipt.Items[1].ID)
	assert.False(t, other.Merged)

	list, err := env.receipts.ListReceipts.CallUnary(ctx, connect.NewRequest(&ListReceiptsRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Receipts, 2)

	splits, err := env.splits.ListSplits.CallUnary(ctx, connect.NewRequest(&ListSplitsRequest{}))
	require.NoError(t, err)
	assert.Len(t, splits.Msg.Splits, 3)
}

func TestAddReceiptValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *AddReceiptRequest
	}{
		{name: "no items", req: &AddReceiptRequest{Platform: "Zepto"}},
		{name: "bad date", req: &AddReceiptRequest{Date: "01/05/2024", Items: []models.Item{{Name: "x", Price: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.receipts.AddReceipt.CallUnary(ctx, connect.NewRequest(tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestImportExtraction(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.receipts.ImportExtraction.CallUnary(context.Background(), connect.NewRequest(&ImportExtractionRequest{
		Extraction: models.RawExtraction{
			Items: []models.RawItem{
				{Name: "Tea", Price: models.NewNumber(40), Quantity: models.NewNumber(2)},
				{Name: "", Price: models.NewNumber(10), Quantity: models.NewNumber(0)},
			},
			OtherCharges: []models.RawCharge{
				{Name: "Delivery", Amount: models.NewNumber(25)},
				{Name: "Tip", Amount: models.NewNumber(0)},
			},
			Total:    models.NewNumber(115),
			Currency: "usd",
		},
		ModelUsed: "gemini-2.0-flash",
	}))
	require.NoError(t, err)

	r := resp.Msg.Receipt
	assert.Equal(t, "Receipt", r.Platform)
	assert.Equal(t, time.Now().Format("2006-01-02"), r.Date)
	assert.Equal(t, "USD", r.Currency)
	assert.Equal(t, "gemini-2.0-flash", r.ModelUsed)
	require.Len(t, r.Items, 3)
	assert.Equal(t, models.Item{ID: r.Items[0].ID, Name: "Tea", Price: 80, Quantity: 2}, r.Items[0])
	assert.Equal(t, "Unnamed Item", r.Items[1].Name)
	assert.Equal(t, 10.0, r.Items[1].Price)
	assert.Equal(t, "Delivery", r.Items[2].Name)
	assert.Equal(t, 25.0, r.Items[2].Price)
}

func TestImportSanitizedExtractionKeepsTotal(t *testing.T) {
	env := setupTestServer(t)

	clean := sanitizer.Sanitize(models.RawExtraction{
		Items: []models.RawItem{
			{Name: "Milk", Price: models.NewNumber(50), Quantity: models.NewNumber(2)},
			{Name: "Return", Price: models.NewNumber(10), Quantity: models.NewNumber(-1)},
			{Name: "Round Off", Price: models.NewNumber(0.3), Quantity: models.NewNumber(1)},
		},
		Total:    models.NewNumber(90),
		Currency: "INR",
	})

	resp, err := env.receipts.ImportExtraction.CallUnary(context.Background(), connect.NewRequest(&ImportExtractionRequest{
		Extraction: clean,
	}))
	require.NoError(t, err)

	items := resp.Msg.Receipt.Items
	require.Len(t, items, 3)
	assert.Equal(t, 100.0, items[0].Price)
	assert.Equal(t, -10.0, items[1].Price)
	assert.Equal(t, -1.0, items[1].Quantity)
	assert.Equal(t, 0.0, items[2].Price)

	var sum int64
	for _, it := range items {
		sum += calculator.ToCents(it.Price)
	}
	assert.Equal(t, int64(9000), sum)
}

func TestUpdateReceiptSyncsSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	added := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Blinkit",
		Date:     "2024-05-01",
		Items:    []models.Item{{Name: "Milk", Price: 60}, {Name: "Bread", Price: 40}},
	})
	milk, bread := added.Receipt.Items[0], added.Receipt.Items[1]

	updated := added.Receipt
	updated.Platform = "Instamart"
	updated.Items = []models.Item{milk, {Name: "Butter", Price: 55}}

	resp, err := env.receipts.UpdateReceipt.CallUnary(ctx, connect.NewRequest(&UpdateReceiptRequest{Receipt: updated}))
	require.NoError(t, err)
	assert.Equal(t, "Instamart", resp.Msg.Receipt.Platform)
	require.Len(t, resp.Msg.Receipt.Items, 2)
	assert.Equal(t, milk.ID, resp.Msg.Receipt.Items[0].ID)
	butter := resp.Msg.Receipt.Items[1]

	splits, err := env.splits.ListSplits.CallUnary(ctx, connect.NewRequest(&ListSplitsRequest{}))
	require.NoError(t, err)
	assert.Contains(t, splits.Msg.Splits, milk.ID)
	assert.Contains(t, splits.Msg.Splits, butter.ID)
	assert.NotContains(t, splits.Msg.Splits, bread.ID)
}

func TestUpdateReceiptNotFound(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.receipts.UpdateReceipt.CallUnary(context.Background(), connect.NewRequest(&UpdateReceiptRequest{
		Receipt: models.ReceiptGroup{ID: "missing"},
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestDeleteReceiptDropsSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	added := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items:    []models.Item{{Name: "Milk", Price: 60}},
	})

	_, err := env.receipts.DeleteReceipt.CallUnary(ctx, connect.NewRequest(&DeleteReceiptRequest{ID: added.Receipt.ID}))
	require.NoError(t, err)

	list, err := env.receipts.ListReceipts.CallUnary(ctx, connect.NewRequest(&ListReceiptsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Receipts)

	splits, err := env.splits.ListSplits.CallUnary(ctx, connect.NewRequest(&ListSplitsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, splits.Msg.Splits)
}

func TestSetPayer(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	asha := env.addPerson(t, "Asha")

	added := env.addReceipt(t, &AddReceiptRequest{
		Platform: "Zepto",
		Date:     "2024-05-01",
		Items:    []models.Item{{Name: "Milk", Price: 60}},
	})

	resp, err := env.receipts.SetPayer.CallUnary(ctx, connect.NewRequest(&SetPayerRequest{ReceiptID: added.Receipt.ID, PayerID: asha.ID}))
	require.NoError(t, err)
	assert.Equal(t, asha.ID, resp.Msg.Receipt.PayerID)

	_, err = env.receipts.SetPayer.CallUnary(ctx, connect.NewRequest(&SetPayerRequest{ReceiptID: added.Receipt.ID, PayerID: "stranger"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
