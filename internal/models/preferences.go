package models

// ModelConfig describes a vision model that can extract receipts.
type ModelConfig struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	SupportsJSONMode bool   `json:"supportsJsonMode"`

	// Priority orders fallbacks. Lower number = tried first.
	Priority int `json:"priority"`
}

// Preferences holds the persisted model selection.
type Preferences struct {
	// SelectedModel is the model used when an upload does not name one.
	// Empty means the catalog default.
	SelectedModel string `json:"selectedModel" yaml:"selected_model"`

	// AutoMode enables the single fallback to the next model on rate limits.
	AutoMode bool `json:"autoMode" yaml:"auto_mode"`
}
