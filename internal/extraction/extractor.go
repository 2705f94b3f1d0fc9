// Package extraction turns receipt images and PDFs into sanitized
// extractions using a vision model, falling back to the next model in the
// catalog when the selected one is rate limited.
package extraction

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	// ErrRateLimited marks a model call rejected for quota reasons.
	ErrRateLimited = errors.New("model rate limited")
	// ErrQuotaExhausted is returned when the fallback model is also rate
	// limited, or when there is no model left to fall back to.
	ErrQuotaExhausted = errors.New("quota exceeded for all available models")
	// ErrUnknownModel is returned for a model ID missing from the catalog.
	ErrUnknownModel = errors.New("unknown model")
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("model returned no content")
)

const (
	MIMEJPEG        = "image/jpeg"
	MIMEPDF         = "application/pdf"
	mimeOctetStream = "application/octet-stream"
)

// Document is an uploaded receipt.
type Document struct {
	Data     []byte
	MIMEType string
	Filename string
}

// NormalizedMIMEType maps missing or generic content types to JPEG.
func (d Document) NormalizedMIMEType() string {
	mt := strings.TrimSpace(strings.ToLower(d.MIMEType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" || mt == mimeOctetStream {
		return MIMEJPEG
	}
	return mt
}

// IsPDF reports whether the document should be read as a PDF voucher.
func (d Document) IsPDF() bool {
	return d.NormalizedMIMEType() == MIMEPDF
}

// Extractor calls a vision model and returns its unsanitized reading of a
// document. Rate limit failures must wrap ErrRateLimited.
type Extractor interface {
	Extract(ctx context.Context, doc Document, modelID string) (*models.RawExtraction, error)
}

// ModelInfo is what a probe learns about a model.
type ModelInfo struct {
	InputTokenLimit  int32
	OutputTokenLimit int32
}

// Prober checks whether a model can be reached with the configured key.
type Prober interface {
	Probe(ctx context.Context, modelID string) (ModelInfo, error)
}
