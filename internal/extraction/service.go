package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/sanitizer"
)

// PreferenceSource supplies the user's saved model choice.
type PreferenceSource interface {
	Get() models.Preferences
}

// Result is a sanitized extraction and the model that produced it.
type Result struct {
	Extraction models.RawExtraction
	ModelUsed  string
	FellBack   bool
	Report     sanitizer.Report
}

// ModelStatus is the availability of one model.
type ModelStatus struct {
	ModelID          string `json:"modelId"`
	Available        bool   `json:"available"`
	Error            string `json:"error,omitempty"`
	InputTokenLimit  int32  `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int32  `json:"outputTokenLimit,omitempty"`
}

// Service runs extractions with sanitization and quota fallback.
type Service struct {
	extractor Extractor
	catalog   *Catalog
	sanitizer *sanitizer.Sanitizer
	prefs     PreferenceSource
	metrics   *metrics.Metrics
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the default model catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithSanitizer replaces the default sanitizer.
func WithSanitizer(san *sanitizer.Sanitizer) Option {
	return func(s *Service) { s.sanitizer = san }
}

// WithPreferences lets Process pick the saved model when none is given.
func WithPreferences(p PreferenceSource) Option {
	return func(s *Service) { s.prefs = p }
}

// WithMetrics records attempts, fallbacks and sanitizer corrections.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds each model call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a Service around an extractor.
func NewService(extractor Extractor, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		catalog:   DefaultCatalog(),
		sanitizer: sanitizer.New(sanitizer.DefaultOptions()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the models this service can use.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// ResolveModel picks the model for a request: the explicit id, then the
// saved preference, then the catalog default.
func (s *Service) ResolveModel(modelID string) (models.ModelConfig, error) {
	if modelID == "" && s.prefs != nil {
		modelID = s.prefs.Get().SelectedModel
	}
	if modelID == "" {
		return s.catalog.Default(), nil
	}
	cfg, ok := s.catalog.Lookup(modelID)
	if !ok {
		return models.ModelConfig{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	return cfg, nil
}

// AutoFallback reports whether the saved preferences allow falling back.
func (s *Service) AutoFallback() bool {
	if s.prefs == nil {
		return true
	}
	return s.prefs.Get().AutoMode
}

// Process extracts and sanitizes a document. When the chosen model is rate
// limited and autoFallback is set, the next model in the catalog is tried
// exactly once.
func (s *Service) Process(ctx context.Context, doc Document, modelID string, autoFallback bool) (*Result, error) {
	model, err := s.ResolveModel(modelID)
	if err != nil {
		return nil, err
	}
	slog.Info("processing receipt",
		"model", model.ID,
		"mime_type", doc.NormalizedMIMEType(),
		"bytes", len(doc.Data),
	)

	result, err := s.attempt(ctx, doc, model)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrRateLimited) || !autoFallback {
		return nil, err
	}

	next, ok := s.catalog.NextFallback(model.ID)
	if !ok {
		slog.Warn("quota exceeded with no fallback left", "model", model.ID)
		return nil, fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	}

	slog.Warn("quota exceeded, falling back", "from", model.ID, "to", next.ID)
	s.metrics.ObserveFallback(model.ID, next.ID)

	result, err = s.attempt(ctx, doc, next)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return nil, fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return nil, err
	}
	result.FellBack = true
	return result, nil
}

func (s *Service) attempt(ctx context.Context, doc Document, model models.ModelConfig) (*Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.extractor.Extract(ctx, doc, model.ID)
	elapsed := time.Since(start)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrRateLimited) {
			outcome = "rate_limited"
		}
		s.metrics.ObserveExtraction(model.ID, outcome, elapsed)
		slog.Error("extraction failed", "model", model.ID, "outcome", outcome, "error", err)
		return nil, err
	}
	s.metrics.ObserveExtraction(model.ID, "ok", elapsed)

	clean, report := s.sanitizer.Sanitize(*raw)
	s.metrics.ObserveSanitizer(report)
	logReport(model.ID, report)

	return &Result{Extraction: clean, ModelUsed: model.ID, Report: report}, nil
}

func logReport(modelID string, report sanitizer.Report) {
	for _, f := range report.Flipped {
		slog.Info("discount sign corrected", "model", modelID, "line", f.Name,
			"before", f.Before.String(), "after", f.After.String())
	}
	ro := report.RoundOff
	switch {
	case ro == nil:
	case ro.Corrected:
		slog.Info("round off corrected", "model", modelID, "line", ro.Name,
			"before", ro.Before.String(), "after", ro.After.String())
	case report.Mismatch():
		slog.Warn("total does not reconcile", "model", modelID, "line", ro.Name,
			"expected", ro.Expected.String())
	}
}

// CheckAvailability probes the given models concurrently, or every catalog
// model when ids is empty. Results keep the order of ids.
func (s *Service) CheckAvailability(ctx context.Context, ids []string) []ModelStatus {
	if len(ids) == 0 {
		ids = s.catalog.IDs()
	}
	statuses := make([]ModelStatus, len(ids))

	prober, ok := s.extractor.(Prober)
	if !ok {
		for i, id := range ids {
			statuses[i] = ModelStatus{ModelID: id, Error: "availability probe not supported"}
		}
		return statuses
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			statuses[i] = probe(gctx, prober, id)
			return nil
		})
	}
	_ = g.Wait()
	return statuses
}

func probe(ctx context.Context, prober Prober, id string) ModelStatus {
	info, err := prober.Probe(ctx, id)
	if err != nil {
		return ModelStatus{ModelID: id, Error: err.Error()}
	}
	return ModelStatus{
		ModelID:          id,
		Available:        true,
		InputTokenLimit:  info.InputTokenLimit,
		OutputTokenLimit: info.OutputTokenLimit,
	}
}
