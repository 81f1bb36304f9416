package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore(t *testing.T) {
	t.Run("missing file gives the default cash", func(t *testing.T) {
		s := NewStateStore(filepath.Join(t.TempDir(), "state.json"))
		st, err := s.Load(500)
		require.NoError(t, err)
		assert.Equal(t, 500.0, st.Cash)
	})

	t.Run("saved balance is loaded back", func(t *testing.T) {
		s := NewStateStore(filepath.Join(t.TempDir(), "nested", "state.json"))
		require.NoError(t, s.Save(&State{Cash: 1234.5}))
		st, err := s.Load(500)
		require.NoError(t, err)
		assert.Equal(t, 1234.5, st.Cash)
	})

	t.Run("corrupted file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := NewStateStore(path).Load(500)
		assert.Error(t, err)
	})
}
