package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tickr v0.1.0")
}

func TestToolsCmdListsAgentTools(t *testing.T) {
	out, err := execute(t, "tools", "--agent", "market")
	require.NoError(t, err)
	assert.Contains(t, out, "get_ticker_data")
	assert.Contains(t, out, "get_kline_data")
	assert.NotContains(t, out, "place_spot_order")
}

func TestChatRejectsUnknownAgent(t *testing.T) {
	_, err := execute(t, "chat", "--agent", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent")
}
