package cli

import (
	"os"
	"testing"

	"github.com/harun/parley/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureCommand(t *testing.T) {
	t.Run("help text", func(t *testing.T) {
		out, err := runCLI(t, "", "configure", "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "Run the setup questions")
	})

	t.Run("saves answers without credentials", func(t *testing.T) {
		home := sandbox(t)
		path := configPath(home)

		out, err := runCLI(t, "3\nabc\nmodel-x\n\n", "configure", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration saved to: "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "test-gemini-key")

		cfg, err := config.NewLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.MaxTurns)
		assert.Equal(t, config.DefaultDelayMs, cfg.DelayMs, "invalid delay reverts to default")
		assert.Equal(t, "model-x", cfg.ModelIDA)
		assert.Equal(t, config.DefaultModelB, cfg.ModelIDB)
	})
}
