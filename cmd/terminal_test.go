package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalSizeFromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	t.Setenv("LINES", "40")

	cols, rows, ok := terminalSizeFromEnv()
	assert.True(t, ok)
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)
}

func TestTerminalSizeFromEnvRejectsPartialOrBogus(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	t.Setenv("LINES", "")
	_, _, ok := terminalSizeFromEnv()
	assert.False(t, ok)

	t.Setenv("COLUMNS", "-1")
	t.Setenv("LINES", "40")
	_, _, ok = terminalSizeFromEnv()
	assert.False(t, ok)
}
