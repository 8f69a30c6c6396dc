package commands

import (
	"os"
	"path/filepath"
	"testing"

	"arcadepal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModuleHandlerRegistersCommands(t *testing.T) {
	cfg := config.NewMockConfig(map[string]interface{}{
		"bot_token":     "test_token",
		"database_path": filepath.Join(t.TempDir(), "test.db"),
	})

	h, err := NewModuleHandler(cfg)
	require.NoError(t, err)
	defer h.GetDB().Close()

	for _, name := range []string{"ping", "help", "economy", "mines", "memory", "jokenpo", "race"} {
		assert.Contains(t, h.commands, name)
	}
	assert.NotNil(t, h.deps.Ledger)
	assert.NotNil(t, h.deps.Registry)
	assert.NotNil(t, h.deps.Locks)
	assert.NotNil(t, h.deps.NewRand())
}

func TestNewModuleHandlerFailsWithoutDatabase(t *testing.T) {
	// A path whose parent is a regular file can never be opened.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := config.NewMockConfig(map[string]interface{}{
		"bot_token":     "test_token",
		"database_path": filepath.Join(blocker, "test.db"),
	})

	h, err := NewModuleHandler(cfg)
	assert.Error(t, err)
	assert.Nil(t, h)
}
