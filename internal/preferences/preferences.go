// Package preferences persists the selected extraction model and the
// auto-fallback flag in a small YAML file.
package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/receiptsplit/internal/models"
)

// fileFormat mirrors models.Preferences with an optional AutoMode so a
// missing key keeps the default (on).
type fileFormat struct {
	SelectedModel string `yaml:"selected_model,omitempty"`
	AutoMode      *bool  `yaml:"auto_mode,omitempty"`
}

// Store reads and writes preferences from a single file.
// It is safe for concurrent use.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by path. The file is created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Defaults returns the preferences used when nothing has been saved.
func Defaults() models.Preferences {
	return models.Preferences{AutoMode: true}
}

// Get returns the saved preferences. A missing or unreadable file yields the
// defaults; unreadable files are logged.
func (s *Store) Get() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Store) load() models.Preferences {
	prefs := Defaults()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return prefs
	}
	if err != nil {
		slog.Warn("Failed to read preferences", "path", s.path, "error", err)
		return prefs
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		slog.Warn("Failed to parse preferences", "path", s.path, "error", err)
		return prefs
	}

	prefs.SelectedModel = f.SelectedModel
	if f.AutoMode != nil {
		prefs.AutoMode = *f.AutoMode
	}
	return prefs
}

// Update applies a partial change and persists the result. Nil arguments
// leave the current value untouched.
func (s *Store) Update(selectedModel *string, autoMode *bool) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load()
	if selectedModel != nil {
		prefs.SelectedModel = *selectedModel
	}
	if autoMode != nil {
		prefs.AutoMode = *autoMode
	}

	if err := s.save(prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func (s *Store) save(prefs models.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	auto := prefs.AutoMode
	data, err := yaml.Marshal(fileFormat{SelectedModel: prefs.SelectedModel, AutoMode: &auto})
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	// Write to a temp file first so a crash never leaves half a file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	slog.Info("Preferences saved", "path", s.path, "selected_model", prefs.SelectedModel, "auto_mode", prefs.AutoMode)
	return nil
}
