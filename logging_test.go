package forwardplus

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("fp", false, log.New(&out, "", 0))

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error: %v", "boom")

	assert.Equal(t, "[fp] DEBUG: shown 2\n[fp] INFO: info\n[fp] WARN: warn\n[fp] ERROR: error: boom\n", out.String())
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("", false, log.New(&out, "", 0))
	l.Infof("ready")
	assert.Equal(t, "INFO: ready\n", out.String())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	assert.NotNil(t, orNop(nil))
	assert.Equal(t, l, orNop(l))
}

func TestDefaultLogger_Threshold(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("fp", true, log.New(&out, "", 0))
	l.SetLevel(LevelWarn)
	assert.False(t, l.DebugEnabled())
	assert.True(t, l.Enabled(LevelError))

	l.Infof("quiet")
	l.Warnf("cap %d", 4)
	assert.Equal(t, "[fp] WARN: cap 4\n", out.String())
	assert.Equal(t, "LEVEL(7)", Level(7).String())
}

func TestDefaultLogger_SplitsSinks(t *testing.T) {
	var out, errs bytes.Buffer
	l := newLogger("", false, log.New(&out, "", 0), log.New(&errs, "", 0))
	l.Infof("a")
	l.Warnf("b")
	l.Errorf("c")
	assert.Equal(t, "INFO: a\n", out.String())
	assert.Equal(t, "WARN: b\nERROR: c\n", errs.String())
}
