package preferences

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestStore_DefaultsWhenMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	assert.Equal(t, models.Preferences{AutoMode: true}, s.Get())
}

func TestStore_UpdateIsPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.yaml")
	s := NewStore(path)

	prefs, err := s.Update(ptr("gemini-2.5-flash"), nil)
	require.NoError(t, err)
	assert.Equal(t, models.Preferences{SelectedModel: "gemini-2.5-flash", AutoMode: true}, prefs)

	prefs, err = s.Update(nil, ptr(false))
	require.NoError(t, err)
	assert.Equal(t, models.Preferences{SelectedModel: "gemini-2.5-flash", AutoMode: false}, prefs)

	// A fresh store sees the persisted values
	assert.Equal(t, prefs, NewStore(path).Get())
}

func TestStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_model: [unterminated"), 0644))

	assert.Equal(t, Defaults(), NewStore(path).Get())
}

func TestStore_MissingAutoModeKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_model: gemma-3-12b-it\n"), 0644))

	assert.Equal(t, models.Preferences{SelectedModel: "gemma-3-12b-it", AutoMode: true}, NewStore(path).Get())
}
