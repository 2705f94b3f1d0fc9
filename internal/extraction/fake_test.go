package extraction

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/receiptsplit/internal/models"
)

// fakeExtractor returns canned results per model and records calls.
type fakeExtractor struct {
	mu      sync.Mutex
	results map[string]*models.RawExtraction
	errs    map[string]error
	calls   []string
	docs    []Document
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		results: map[string]*models.RawExtraction{},
		errs:    map[string]error{},
	}
}

func (f *fakeExtractor) Extract(_ context.Context, doc Document, modelID string) (*models.RawExtraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelID)
	f.docs = append(f.docs, doc)
	if err, ok := f.errs[modelID]; ok {
		return nil, err
	}
	if r, ok := f.results[modelID]; ok {
		c := r.Clone()
		return &c, nil
	}
	return &models.RawExtraction{}, nil
}

func (f *fakeExtractor) Probe(_ context.Context, modelID string) (ModelInfo, error) {
	if err, ok := f.errs[modelID]; ok {
		return ModelInfo{}, err
	}
	return ModelInfo{InputTokenLimit: 1000, OutputTokenLimit: 100}, nil
}

func rateLimited(model string) error {
	return fmt.Errorf("%s: %w: 429 Too Many Requests", model, ErrRateLimited)
}

type staticPrefs models.Preferences

func (p staticPrefs) Get() models.Preferences { return models.Preferences(p) }
