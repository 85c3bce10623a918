package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	Setup(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}

func TestNewWithConfigWritesPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "watch", log.InfoLevel, false, false, log.LogfmtFormatter)
	l.Info("reloaded", "words", 3)
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "watch")
	assert.Contains(t, out, "words=3")
	assert.NotContains(t, out, "hidden")
}
