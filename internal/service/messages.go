package service

import (
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
)

// People

type ListPeopleRequest struct{}

type ListPeopleResponse struct {
	People []models.Person `json:"people"`
}

type AddPersonRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

type AddPersonResponse struct {
	Person models.Person `json:"person"`
}

type UpdatePersonRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

type UpdatePersonResponse struct {
	Person models.Person `json:"person"`
}

type RemovePersonRequest struct {
	ID string `json:"id"`
}

type RemovePersonResponse struct{}

// Receipts

type ListReceiptsRequest struct{}

type ListReceiptsResponse struct {
	Receipts []models.ReceiptGroup `json:"receipts"`
}

type AddReceiptRequest struct {
	Platform  string        `json:"platform"`
	Date      string        `json:"date"`
	Currency  string        `json:"currency,omitempty"`
	Items     []models.Item `json:"items"`
	PayerID   string        `json:"payerId,omitempty"`
	ModelUsed string        `json:"modelUsed,omitempty"`
}

type AddReceiptResponse struct {
	Receipt models.ReceiptGroup `json:"receipt"`
	// Merged is true when the items were appended to an existing receipt
	// with the same platform and date.
	Merged bool `json:"merged"`
}

type ImportExtractionRequest struct {
	Platform   string               `json:"platform,omitempty"`
	Date       string               `json:"date,omitempty"`
	Extraction models.RawExtraction `json:"extraction"`
	ModelUsed  string               `json:"modelUsed,omitempty"`
}

type ImportExtractionResponse struct {
	Receipt models.ReceiptGroup `json:"receipt"`
	Merged  bool                `json:"merged"`
}

type UpdateReceiptRequest struct {
	Receipt models.ReceiptGroup `json:"receipt"`
}

type UpdateReceiptResponse struct {
	Receipt models.ReceiptGroup `json:"receipt"`
}

type DeleteReceiptRequest struct {
	ID string `json:"id"`
}

type DeleteReceiptResponse struct{}

type SetPayerRequest struct {
	ReceiptID string `json:"receiptId"`
	// PayerID may be empty to clear the payer.
	PayerID string `json:"payerId"`
}

type SetPayerResponse struct {
	Receipt models.ReceiptGroup `json:"receipt"`
}

// Splits

type ListSplitsRequest struct{}

type ListSplitsResponse struct {
	Splits map[string]models.SplitAssignment `json:"splits"`
}

type UpdateSplitRequest struct {
	ItemID    string   `json:"itemId"`
	PersonIDs []string `json:"personIds"`
	IsAll     bool     `json:"isAll"`
}

type UpdateSplitResponse struct {
	Split models.SplitAssignment `json:"split"`
}

type CalculateSplitsRequest struct {
	// ReceiptIDs limits the calculation to some receipts. Empty means all.
	ReceiptIDs []string `json:"receiptIds,omitempty"`
}

// PersonShare is one person's line in a calculation.
type PersonShare struct {
	PersonID string  `json:"personId"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

type CalculateSplitsResponse struct {
	Shares          []PersonShare      `json:"shares"`
	PersonTotals    map[string]float64 `json:"personTotals"`
	UnassignedTotal float64            `json:"unassignedTotal"`
	OrphanedTotal   float64            `json:"orphanedTotal"`
	GrandTotal      float64            `json:"grandTotal"`
}

type SettleUpRequest struct{}

type Balance struct {
	PersonID   string  `json:"personId"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
	NetBalance float64 `json:"netBalance"`
}

type Debt struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type SettleUpResponse struct {
	Balances []Balance `json:"balances"`
	Debts    []Debt    `json:"debts"`
}

type ExportRequest struct {
	// Format is text, markdown, html or csv. Empty means text.
	Format string `json:"format"`
}

type ExportResponse struct {
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Models

type ListModelsRequest struct{}

type ListModelsResponse struct {
	Models       []models.ModelConfig `json:"models"`
	DefaultModel string               `json:"defaultModel"`
}

type GetPreferencesRequest struct{}

type GetPreferencesResponse struct {
	Preferences models.Preferences `json:"preferences"`
}

type SelectModelRequest struct {
	// Nil fields are left unchanged. An empty model resets to the default.
	ModelID  *string `json:"model,omitempty"`
	AutoMode *bool   `json:"autoMode,omitempty"`
}

type SelectModelResponse struct {
	Preferences models.Preferences `json:"preferences"`
}

type CheckAvailabilityRequest struct {
	ModelIDs []string `json:"modelIds,omitempty"`
}

type CheckAvailabilityResponse struct {
	Statuses []extraction.ModelStatus `json:"statuses"`
}
