package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/export"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// SplitService assigns items to people and computes who owes what.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// ListSplits returns every assignment keyed by item ID.
func (s *SplitService) ListSplits(ctx context.Context, req *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error) {
	splits, err := s.store.ListSplits(ctx)
	if err != nil {
		return nil, toConnectError("ListSplits", err)
	}
	if splits == nil {
		splits = map[string]models.SplitAssignment{}
	}
	return connect.NewResponse(&ListSplitsResponse{Splits: splits}), nil
}

// UpdateSplit replaces the assignment of an existing item. Person IDs are
// not checked against the people list; stale ones surface as orphaned
// amounts when calculating.
func (s *SplitService) UpdateSplit(ctx context.Context, req *connect.Request[UpdateSplitRequest]) (*connect.Response[UpdateSplitResponse], error) {
	if req.Msg.ItemID == "" {
		return nil, invalidArgument("item_id is required")
	}

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, toConnectError("UpdateSplit", err)
	}
	if !hasItem(groups, req.Msg.ItemID) {
		return nil, toConnectError("UpdateSplit", storage.ErrNotFound)
	}

	split := models.SplitAssignment{
		ItemID:    req.Msg.ItemID,
		PersonIDs: req.Msg.PersonIDs,
		IsAll:     req.Msg.IsAll,
	}
	if split.PersonIDs == nil {
		split.PersonIDs = []string{}
	}
	if err := s.store.UpsertSplit(ctx, split); err != nil {
		return nil, toConnectError("UpdateSplit", err)
	}

	slog.Debug("Split updated", "item_id", split.ItemID, "people", split.PersonIDs, "is_all", split.IsAll)
	return connect.NewResponse(&UpdateSplitResponse{Split: split}), nil
}

// CalculateSplits allocates the items of all (or the requested) receipts.
func (s *SplitService) CalculateSplits(ctx context.Context, req *connect.Request[CalculateSplitsRequest]) (*connect.Response[CalculateSplitsResponse], error) {
	groups, splits, people, err := s.load(ctx)
	if err != nil {
		return nil, toConnectError("CalculateSplits", err)
	}

	if len(req.Msg.ReceiptIDs) > 0 {
		groups, err = selectGroups(groups, req.Msg.ReceiptIDs)
		if err != nil {
			return nil, toConnectError("CalculateSplits", err)
		}
	}

	var items []models.Item
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	result := calculator.CalculateSplits(items, splits, people)

	shares := make([]PersonShare, 0, len(people))
	for _, p := range people {
		shares = append(shares, PersonShare{PersonID: p.ID, Name: p.Name, Amount: result.PersonTotals[p.ID]})
	}

	slog.Debug("Calculated splits",
		"items", len(items),
		"grand_total", result.GrandTotal,
		"unassigned", result.UnassignedTotal,
		"orphaned", result.OrphanedTotal,
	)

	return connect.NewResponse(&CalculateSplitsResponse{
		Shares:          shares,
		PersonTotals:    result.PersonTotals,
		UnassignedTotal: result.UnassignedTotal,
		OrphanedTotal:   result.OrphanedTotal,
		GrandTotal:      result.GrandTotal,
	}), nil
}

// SettleUp turns the allocation of receipts with a payer into balances and
// a minimal set of debts.
func (s *SplitService) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	groups, splits, people, err := s.load(ctx)
	if err != nil {
		return nil, toConnectError("SettleUp", err)
	}

	balances, debts := calculator.SettleUp(groups, splits, people)

	resp := &SettleUpResponse{
		Balances: make([]Balance, len(balances)),
		Debts:    make([]Debt, len(debts)),
	}
	for i, b := range balances {
		resp.Balances[i] = Balance{PersonID: b.PersonID, TotalPaid: b.TotalPaid, TotalOwed: b.TotalOwed, NetBalance: b.NetBalance}
	}
	for i, d := range debts {
		resp.Debts[i] = Debt{From: d.From, To: d.To, Amount: d.Amount}
	}
	return connect.NewResponse(resp), nil
}

// Export renders the current receipts and splits.
func (s *SplitService) Export(ctx context.Context, req *connect.Request[ExportRequest]) (*connect.Response[ExportResponse], error) {
	format, err := export.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	groups, splits, people, err := s.load(ctx)
	if err != nil {
		return nil, toConnectError("Export", err)
	}

	content, err := export.Generate(groups, splits, people, format)
	if err != nil {
		return nil, toConnectError("Export", err)
	}

	return connect.NewResponse(&ExportResponse{
		Format:      string(format),
		ContentType: format.ContentType(),
		Content:     content,
	}), nil
}

func (s *SplitService) load(ctx context.Context) ([]models.ReceiptGroup, map[string]models.SplitAssignment, []models.Person, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	splits, err := s.store.ListSplits(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return groups, splits, people, nil
}

func selectGroups(groups []models.ReceiptGroup, ids []string) ([]models.ReceiptGroup, error) {
	byID := make(map[string]models.ReceiptGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	out := make([]models.ReceiptGroup, 0, len(ids))
	for _, id := range ids {
		g, ok := byID[id]
		if !ok {
			return nil, storage.ErrNotFound
		}
		out = append(out, g)
	}
	return out, nil
}

func hasItem(groups []models.ReceiptGroup, itemID string) bool {
	for _, g := range groups {
		for _, it := range g.Items {
			if it.ID == itemID {
				return true
			}
		}
	}
	return false
}
