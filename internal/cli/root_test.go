package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("version flag", func(t *testing.T) {
		resetFlags()
		cmd := GetRootCmd()
		cmd.SetArgs([]string{"--version"})

		output := &bytes.Buffer{}
		cmd.SetOut(output)

		err := cmd.Execute()
		require.NoError(t, err)

		assert.Contains(t, output.String(), "parley version")
		assert.Contains(t, output.String(), GetVersion())
	})

	t.Run("help flag", func(t *testing.T) {
		resetFlags()
		cmd := GetRootCmd()
		cmd.SetArgs([]string{"--help"})

		output := &bytes.Buffer{}
		cmd.SetOut(output)

		err := cmd.Execute()
		require.NoError(t, err)

		helpText := output.String()
		assert.Contains(t, helpText, "Parley")
		assert.Contains(t, helpText, "Cooperative exploration")
		assert.Contains(t, helpText, "observer")
		assert.Contains(t, helpText, "chatroom")
		assert.Contains(t, helpText, "explore")
	})

	t.Run("global flags", func(t *testing.T) {
		cmd := GetRootCmd()

		configFlag := cmd.PersistentFlags().Lookup("config")
		require.NotNil(t, configFlag)
		assert.Equal(t, "", configFlag.DefValue)

		for _, name := range []string{"max-turns", "delay-ms"} {
			flag := cmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, name)
			assert.Equal(t, "-1", flag.DefValue)
		}

		for _, name := range []string{"log-level", "model-a", "model-b", "provider-a", "provider-b", "transcript-dir", "archive-dir", "metrics-addr", "defaults"} {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
		}
	})

	t.Run("subcommands", func(t *testing.T) {
		names := map[string]bool{}
		for _, c := range GetRootCmd().Commands() {
			names[c.Name()] = true
		}
		for _, want := range []string{"observer", "chatroom", "explore", "configure", "archive"} {
			assert.True(t, names[want], "%s command should exist", want)
		}
	})
}

func TestGetVersion(t *testing.T) {
	version := GetVersion()
	assert.NotEmpty(t, version)
	assert.True(t, strings.HasPrefix(version, "0."))
}
