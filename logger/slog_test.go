package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogWriter_JSON(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	l.With("family", "uwatec-smart").Info("dump finished", "bytes", 128)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "dump finished", rec["msg"])
	assert.Equal(t, "uwatec-smart", rec["family"])
	assert.InDelta(t, 128, rec["bytes"], 0)
	assert.Contains(t, rec, "ts")
}

func TestSlogWriter_SetLevel(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, ErrorLevel, false)
	assert.Equal(t, ErrorLevel, l.Level())

	l.Warn("dropped")
	assert.Empty(t, buf.String())

	child := l.With("k", "v")
	child.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())

	l.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	m := NewMockLogger()
	m.On("Info", "hello", []any{"k", 1}).Once()

	SetLogger(m)
	SetLogger(nil)
	Info("hello", "k", 1)

	m.AssertExpectations(t)
}

func TestMockLogger_State(t *testing.T) {
	m := NewMockLogger().Ignore("Debug")
	m.On("Warn", "child", []any{"n", 2}).Once()

	assert.Equal(t, DebugLevel, m.Level())
	m.SetLevel(WarnLevel)
	assert.Equal(t, WarnLevel, m.Level())

	child := m.With("device", "uwatec")
	assert.Same(t, m, child)
	child.Debug("ignored")
	child.Warn("child", "n", 2)

	assert.Equal(t, []any{"device", "uwatec"}, m.Fields())
	m.AssertExpectations(t)
}
