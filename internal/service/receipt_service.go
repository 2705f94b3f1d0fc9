package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

const (
	defaultPlatform = "Receipt"
	defaultCurrency = "INR"
	unnamedItem     = "Unnamed Item"
	dateLayout      = "2006-01-02"
)

// ReceiptService manages receipt groups and keeps split assignments in
// step with their items.
type ReceiptService struct {
	store storage.Store
	now   func() time.Time
}

// NewReceiptService creates a new ReceiptService with the given storage backend.
func NewReceiptService(store storage.Store) *ReceiptService {
	return &ReceiptService{store: store, now: time.Now}
}

// ListReceipts returns every receipt group with its items.
func (s *ReceiptService) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, toConnectError("ListReceipts", err)
	}
	if groups == nil {
		groups = []models.ReceiptGroup{}
	}
	return connect.NewResponse(&ListReceiptsResponse{Receipts: groups}), nil
}

// AddReceipt stores a receipt. Items from a receipt with the same platform
// and date as an existing group are appended to that group. Every new item
// starts shared by everyone.
func (s *ReceiptService) AddReceipt(ctx context.Context, req *connect.Request[AddReceiptRequest]) (*connect.Response[AddReceiptResponse], error) {
	if len(req.Msg.Items) == 0 {
		return nil, invalidArgument("at least one item is required")
	}

	incoming, err := s.newGroup(req.Msg.Platform, req.Msg.Date, req.Msg.Currency)
	if err != nil {
		return nil, err
	}
	incoming.PayerID = req.Msg.PayerID
	incoming.ModelUsed = req.Msg.ModelUsed
	incoming.Items = cleanItems(req.Msg.Items, nil)

	group, merged, err := s.addGroup(ctx, incoming)
	if err != nil {
		return nil, toConnectError("AddReceipt", err)
	}
	return connect.NewResponse(&AddReceiptResponse{Receipt: *group, Merged: merged}), nil
}

// ImportExtraction turns a sanitized extraction into a receipt. Item lines
// become line totals and other charges become items of their own.
func (s *ReceiptService) ImportExtraction(ctx context.Context, req *connect.Request[ImportExtractionRequest]) (*connect.Response[ImportExtractionResponse], error) {
	raw := req.Msg.Extraction

	incoming, err := s.newGroup(req.Msg.Platform, req.Msg.Date, raw.Currency)
	if err != nil {
		return nil, err
	}
	incoming.ModelUsed = req.Msg.ModelUsed
	incoming.Items = ItemsFromExtraction(raw)
	if len(incoming.Items) == 0 {
		return nil, invalidArgument("extraction has no items")
	}

	group, merged, err := s.addGroup(ctx, incoming)
	if err != nil {
		return nil, toConnectError("ImportExtraction", err)
	}
	return connect.NewResponse(&ImportExtractionResponse{Receipt: *group, Merged: merged}), nil
}

// UpdateReceipt replaces a group's fields and items. Assignments of removed
// items are deleted and new items get the default assignment.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, req *connect.Request[UpdateReceiptRequest]) (*connect.Response[UpdateReceiptResponse], error) {
	updated := req.Msg.Receipt
	if updated.ID == "" {
		return nil, invalidArgument("receipt id is required")
	}
	if updated.Date != "" {
		if _, err := time.Parse(dateLayout, updated.Date); err != nil {
			return nil, invalidArgument(fmt.Sprintf("date %q must be YYYY-MM-DD", updated.Date))
		}
	}

	existing, err := s.store.GetGroup(ctx, updated.ID)
	if err != nil {
		return nil, toConnectError("UpdateReceipt", err)
	}

	existing.Platform = firstNonEmpty(strings.TrimSpace(updated.Platform), existing.Platform)
	existing.Date = firstNonEmpty(updated.Date, existing.Date)
	existing.Currency = firstNonEmpty(strings.ToUpper(strings.TrimSpace(updated.Currency)), existing.Currency)
	existing.PayerID = updated.PayerID
	oldIDs := existing.ItemIDs()
	known := make(map[string]bool, len(oldIDs))
	for _, id := range oldIDs {
		known[id] = true
	}
	existing.Items = cleanItems(updated.Items, known)

	if err := s.store.UpsertGroup(ctx, existing); err != nil {
		return nil, toConnectError("UpdateReceipt", err)
	}

	kept := make(map[string]bool, len(existing.Items))
	for _, id := range existing.ItemIDs() {
		kept[id] = true
	}
	for _, id := range oldIDs {
		if kept[id] {
			continue
		}
		if err := s.store.DeleteSplit(ctx, id); err != nil {
			return nil, toConnectError("UpdateReceipt", err)
		}
	}
	if err := s.ensureSplits(ctx, existing.ItemIDs()); err != nil {
		return nil, toConnectError("UpdateReceipt", err)
	}

	slog.Info("Receipt updated", "receipt_id", existing.ID, "items", len(existing.Items))
	return connect.NewResponse(&UpdateReceiptResponse{Receipt: *existing}), nil
}

// DeleteReceipt removes a group and the assignments of its items.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, req *connect.Request[DeleteReceiptRequest]) (*connect.Response[DeleteReceiptResponse], error) {
	if req.Msg.ID == "" {
		return nil, invalidArgument("id is required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("DeleteReceipt", err)
	}
	for _, id := range group.ItemIDs() {
		if err := s.store.DeleteSplit(ctx, id); err != nil {
			return nil, toConnectError("DeleteReceipt", err)
		}
	}
	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		return nil, toConnectError("DeleteReceipt", err)
	}

	slog.Info("Receipt deleted", "receipt_id", group.ID)
	return connect.NewResponse(&DeleteReceiptResponse{}), nil
}

// SetPayer records who paid for a receipt. The payer must be a known person.
func (s *ReceiptService) SetPayer(ctx context.Context, req *connect.Request[SetPayerRequest]) (*connect.Response[SetPayerResponse], error) {
	if req.Msg.ReceiptID == "" {
		return nil, invalidArgument("receipt_id is required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, toConnectError("SetPayer", err)
	}

	if req.Msg.PayerID != "" {
		people, err := s.store.ListPeople(ctx)
		if err != nil {
			return nil, toConnectError("SetPayer", err)
		}
		if !containsPerson(people, req.Msg.PayerID) {
			return nil, invalidArgument(fmt.Sprintf("payer_id '%s' is not a known person", req.Msg.PayerID))
		}
	}

	group.PayerID = req.Msg.PayerID
	if err := s.store.UpsertGroup(ctx, group); err != nil {
		return nil, toConnectError("SetPayer", err)
	}
	return connect.NewResponse(&SetPayerResponse{Receipt: *group}), nil
}

// newGroup applies defaults and validates the receipt header.
func (s *ReceiptService) newGroup(platform, date, currency string) (models.ReceiptGroup, error) {
	g := models.ReceiptGroup{
		Platform: firstNonEmpty(strings.TrimSpace(platform), defaultPlatform),
		Date:     firstNonEmpty(strings.TrimSpace(date), s.now().Format(dateLayout)),
		Currency: firstNonEmpty(strings.ToUpper(strings.TrimSpace(currency)), defaultCurrency),
	}
	if _, err := time.Parse(dateLayout, g.Date); err != nil {
		return g, invalidArgument(fmt.Sprintf("date %q must be YYYY-MM-DD", g.Date))
	}
	return g, nil
}

// addGroup stores incoming, merging it into an existing group with the same
// platform and date, and creates default assignments for the new items.
func (s *ReceiptService) addGroup(ctx context.Context, incoming models.ReceiptGroup) (*models.ReceiptGroup, bool, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, false, err
	}

	target := &incoming
	merged := false
	for i := range groups {
		if groups[i].Platform == incoming.Platform && groups[i].Date == incoming.Date {
			target = &groups[i]
			merged = true
			break
		}
	}

	start := 0
	if merged {
		start = len(target.Items)
		target.Items = append(target.Items, incoming.Items...)
		if target.PayerID == "" {
			target.PayerID = incoming.PayerID
		}
		if incoming.ModelUsed != "" {
			target.ModelUsed = incoming.ModelUsed
		}
	}

	if err := s.store.UpsertGroup(ctx, target); err != nil {
		return nil, false, err
	}
	if err := s.ensureSplits(ctx, target.ItemIDs()[start:]); err != nil {
		return nil, false, err
	}

	slog.Info("Receipt added",
		"receipt_id", target.ID,
		"platform", target.Platform,
		"date", target.Date,
		"new_items", len(incoming.Items),
		"merged", merged,
	)
	return target, merged, nil
}

// ensureSplits gives every listed item without an assignment the default one.
func (s *ReceiptService) ensureSplits(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	splits, err := s.store.ListSplits(ctx)
	if err != nil {
		return err
	}
	for _, id := range itemIDs {
		if _, ok := splits[id]; ok {
			continue
		}
		if err := s.store.UpsertSplit(ctx, models.NewDefaultAssignment(id)); err != nil {
			return err
		}
	}
	return nil
}

// ItemsFromExtraction converts a sanitized extraction into receipt items.
// Item prices are line totals, computed the same way the sanitizer sums
// them, so the stored group still adds up to the reconciled total.
func ItemsFromExtraction(raw models.RawExtraction) []models.Item {
	items := make([]models.Item, 0, len(raw.Items)+len(raw.OtherCharges))
	for _, it := range raw.Items {
		items = append(items, models.Item{
			Name:     firstNonEmpty(strings.TrimSpace(it.Name), unnamedItem),
			Price:    it.LineTotal().Round(2).InexactFloat64(),
			Quantity: it.EffectiveQuantity().InexactFloat64(),
		})
	}
	for _, ch := range raw.OtherCharges {
		if ch.Amount.IsZero() {
			continue
		}
		items = append(items, models.Item{
			Name:     firstNonEmpty(strings.TrimSpace(ch.Name), unnamedItem),
			Price:    ch.Amount.Round(2).InexactFloat64(),
			Quantity: 1,
		})
	}
	return items
}

// cleanItems trims names and clears IDs that are not in known, so new
// items always get fresh IDs from the store.
func cleanItems(in []models.Item, known map[string]bool) []models.Item {
	out := make([]models.Item, len(in))
	for i, it := range in {
		it.Name = firstNonEmpty(strings.TrimSpace(it.Name), unnamedItem)
		if !known[it.ID] {
			it.ID = ""
		}
		out[i] = it
	}
	return out
}

func containsPerson(people []models.Person, id string) bool {
	for _, p := range people {
		if p.ID == id {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
