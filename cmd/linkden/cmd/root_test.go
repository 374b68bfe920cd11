package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HelpListsSubcommands(t *testing.T) {
	// Given: the root command
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	// When: asking for help
	err := cmd.Execute()

	// Then: every subcommand is listed
	require.NoError(t, err)
	output := buf.String()
	for _, name := range []string{
		"serve", "add", "list", "confirm", "remove",
		"search", "suggest", "token", "version",
	} {
		assert.Contains(t, output, name, "Help should list %q", name)
	}
}

func TestRootCmd_VersionFlag(t *testing.T) {
	// Given: the root command with --version
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	// When: executing
	err := cmd.Execute()

	// Then: the version template is used
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "linkden version")
}

func TestRootCmd_UnknownCommandFails(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"definitely-not-a-command"})

	err := cmd.Execute()
	assert.Error(t, err)
}
