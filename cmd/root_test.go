package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"research", "slides", "serve", "ping"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "agent-research", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestResearchCommand_Flags(t *testing.T) {
	for _, name := range []string{"target", "focus", "requirements", "slides", "provider"} {
		assert.NotNil(t, researchCmd.Flags().Lookup(name), "research should have --%s", name)
	}
	format := researchCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "json", format.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestPingCommand_Flags(t *testing.T) {
	flag := pingCmd.Flags().Lookup("all")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSlidesCommand_Flags(t *testing.T) {
	for _, name := range []string{"in", "out"} {
		flag := slidesCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "-", flag.DefValue)
	}
}
