package extraction

import (
	"sort"

	"github.com/mmynk/receiptsplit/internal/models"
)

// DefaultModels is the built-in list of vision models, cheapest and most
// generous quota first. Gemma models do not accept a JSON response type.
var DefaultModels = []models.ModelConfig{
	{ID: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", SupportsJSONMode: true, Priority: 1},
	{ID: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash", SupportsJSONMode: true, Priority: 2},
	{ID: "gemini-2.5-flash-lite", DisplayName: "Gemini 2.5 Flash Lite", SupportsJSONMode: true, Priority: 3},
	{ID: "gemma-3-12b-it", DisplayName: "Gemma 3 12B", SupportsJSONMode: false, Priority: 4},
	{ID: "gemma-3-27b-it", DisplayName: "Gemma 3 27B", SupportsJSONMode: false, Priority: 5},
}

// Catalog is an immutable, priority-ordered set of models.
type Catalog struct {
	models []models.ModelConfig
}

// NewCatalog builds a catalog ordered by ascending priority. Ties keep
// their input order.
func NewCatalog(list []models.ModelConfig) *Catalog {
	sorted := make([]models.ModelConfig, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Catalog{models: sorted}
}

// DefaultCatalog returns a catalog over DefaultModels.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultModels)
}

// Models returns a copy of the catalog in priority order.
func (c *Catalog) Models() []models.ModelConfig {
	out := make([]models.ModelConfig, len(c.models))
	copy(out, c.models)
	return out
}

// IDs returns the model IDs in priority order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.models))
	for i, m := range c.models {
		ids[i] = m.ID
	}
	return ids
}

// Lookup finds a model by ID.
func (c *Catalog) Lookup(id string) (models.ModelConfig, bool) {
	for _, m := range c.models {
		if m.ID == id {
			return m, true
		}
	}
	return models.ModelConfig{}, false
}

// Default is the highest priority model. It is the zero value for an
// empty catalog.
func (c *Catalog) Default() models.ModelConfig {
	if len(c.models) == 0 {
		return models.ModelConfig{}
	}
	return c.models[0]
}

// NextFallback returns the model that follows id in priority order. An
// unknown id falls back to the first model; the last model has none.
func (c *Catalog) NextFallback(id string) (models.ModelConfig, bool) {
	if len(c.models) == 0 {
		return models.ModelConfig{}, false
	}
	for i, m := range c.models {
		if m.ID != id {
			continue
		}
		if i+1 < len(c.models) {
			return c.models[i+1], true
		}
		return models.ModelConfig{}, false
	}
	return c.models[0], true
}
