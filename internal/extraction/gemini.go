package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mmynk/receiptsplit/internal/models"
)

// GeminiExtractor reads receipts with the Gemini API. The client is created
// on first use so a server can start without an API key.
type GeminiExtractor struct {
	apiKey  string
	catalog *Catalog

	mu     sync.Mutex
	client *genai.Client
}

var (
	_ Extractor = (*GeminiExtractor)(nil)
	_ Prober    = (*GeminiExtractor)(nil)
)

// NewGeminiExtractor creates an extractor. The catalog decides which
// models get a JSON response type.
func NewGeminiExtractor(apiKey string, catalog *Catalog) *GeminiExtractor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &GeminiExtractor{apiKey: apiKey, catalog: catalog}
}

func (g *GeminiExtractor) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *GeminiExtractor) model(client *genai.Client, modelID string) *genai.GenerativeModel {
	model := client.GenerativeModel(modelID)
	// Receipts carry names and addresses that trip the default filters.
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}
	if cfg, ok := g.catalog.Lookup(modelID); ok && cfg.SupportsJSONMode {
		model.ResponseMIMEType = "application/json"
	}
	return model
}

// Extract sends the document with the matching prompt and decodes the
// JSON reply.
func (g *GeminiExtractor) Extract(ctx context.Context, doc Document, modelID string) (*models.RawExtraction, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	model := g.model(client, modelID)
	blob := genai.Blob{MIMEType: doc.NormalizedMIMEType(), Data: doc.Data}

	resp, err := model.GenerateContent(ctx, blob, genai.Text(promptFor(doc)))
	if err != nil {
		if isRateLimit(err) {
			return nil, fmt.Errorf("%s: %w: %v", modelID, ErrRateLimited, err)
		}
		return nil, fmt.Errorf("gemini %s: %w", modelID, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini %s: %w", modelID, ErrEmptyResponse)
	}
	slog.Debug("gemini raw response", "model", modelID, "bytes", len(text))

	return ParseExtraction(text)
}

// Probe fetches model metadata, which fails for unknown models and
// invalid keys.
func (g *GeminiExtractor) Probe(ctx context.Context, modelID string) (ModelInfo, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return ModelInfo{}, err
	}
	info, err := client.GenerativeModel(modelID).Info(ctx)
	if err != nil {
		if isRateLimit(err) {
			return ModelInfo{}, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return ModelInfo{}, err
	}
	return ModelInfo{
		InputTokenLimit:  info.InputTokenLimit,
		OutputTokenLimit: info.OutputTokenLimit,
	}, nil
}

// Close releases the underlying client, if one was created.
func (g *GeminiExtractor) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}

func isRateLimit(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	return strings.Contains(err.Error(), "RESOURCE_EXHAUSTED")
}

// ParseExtraction decodes a model reply, tolerating markdown code fences
// and prose around the JSON object.
func ParseExtraction(text string) (*models.RawExtraction, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var raw models.RawExtraction
	err := json.Unmarshal([]byte(cleaned), &raw)
	if err == nil {
		return &raw, nil
	}

	start, end := strings.IndexByte(cleaned, '{'), strings.LastIndexByte(cleaned, '}')
	if start >= 0 && end > start {
		// A failed Unmarshal may have filled part of raw.
		var inner models.RawExtraction
		if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), &inner); err2 == nil {
			return &inner, nil
		}
	}
	return nil, fmt.Errorf("failed to parse model response: %w", err)
}
