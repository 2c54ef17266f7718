package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"abc"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("20")
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("7")
	require.NoError(t, err)
	assert.Equal(t, uint(7), target)

	_, err = parseTarget("x")
	assert.Error(t, err)
}

func TestNormalizeDBURLHonorsEnv(t *testing.T) {
	raw := "postgres://u:p@localhost:5432/mirror?sslmode=disable"

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
	assert.Equal(t, raw, normalizeDBURL(raw))

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	assert.Contains(t, normalizeDBURL(raw), "disable_prepared_binary_result=yes")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd(nil)
	for _, name := range []string{"up", "down", "version", "force", "goto", "migrate"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotEqual(t, cmd, found, name)
	}
}
