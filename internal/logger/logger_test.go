package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, DebugLevel, ParseLevel("trace"))
	assert.Equal(t, WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, ErrorLevel, ParseLevel("fatal"))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("info")

	SetLevel("warn")
	assert.Equal(t, "warn", GetLevel())
	assert.False(t, Enabled(InfoLevel))
	assert.True(t, Enabled(ErrorLevel))

	Infof("hidden %d", 1)
	assert.Empty(t, buf.String())

	Errorf("shown %d", 2)
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "shown 2")
}

func TestSetLevelAppliesToExistingOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("info")

	SetLevel("error")
	Warnf("quiet")
	assert.Empty(t, buf.String())

	SetLevel("debug")
	Debugf("loud %s", "now")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "loud now")
}
