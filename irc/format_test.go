package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeColour_ForegroundOnly(t *testing.T) {
	c, err := MakeColour(Red, "")
	require.NoError(t, err)
	assert.Equal(t, "\x03"+Red+Bold+Bold, c)
}

func TestMakeColour_WithBackground(t *testing.T) {
	c, err := MakeColour(White, Black)
	require.NoError(t, err)
	assert.Equal(t, "\x0300,01", c)
}

func TestMakeColourUnescaped(t *testing.T) {
	c, err := MakeColourUnescaped(Green, "")
	require.NoError(t, err)
	assert.Equal(t, "\x0303", c)
}

func TestMakeColour_RejectsBadLengths(t *testing.T) {
	_, err := MakeColour("4", "")
	assert.Error(t, err)
	_, err = MakeColour(Red, "1")
	assert.Error(t, err)
}

func TestAction(t *testing.T) {
	assert.Equal(t, "\x01ACTION waves\x01", Action("waves"))
}
