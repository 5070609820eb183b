package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{
		{"seed-lessons"},
		{"stripe", "create-products"},
		{"stripe", "list-prices"},
		{"stripe", "check"},
		{"files", "check"},
		{"files", "list"},
		{"send-test-email"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestFlags(t *testing.T) {
	root := newRootCommand()

	list, _, err := root.Find([]string{"stripe", "list-prices"})
	require.NoError(t, err)
	assert.Equal(t, "10", list.Flags().Lookup("limit").DefValue)

	files, _, err := root.Find([]string{"files", "list"})
	require.NoError(t, err)
	assert.Equal(t, "lessons", files.Flags().Lookup("folder").DefValue)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "6.99 usd", formatAmount(699, "usd"))
	assert.Equal(t, "25.99 usd", formatAmount(2599, "usd"))
}
