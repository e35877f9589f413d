package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogger_TeesToFileAndLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portal.log")
	l, err := New(Options{Path: path})
	require.NoError(t, err)

	l.Log("cmd portals")
	l.Zap().Named("portal").Warn("portal sizes differ", zap.String("a", "A"), zap.Float64("size_a", 50))
	l.Zap().Debug("below level")
	require.NoError(t, l.Close())

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "cmd portals")
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[1], "portal")
	assert.Contains(t, lines[1], `"size_a": 50`)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "portal sizes differ", entries[1]["msg"])
	assert.Equal(t, "portal", entries[1]["logger"])
	assert.Equal(t, "A", entries[1]["a"])
}

func TestLogger_MemoryOnlyAndBounded(t *testing.T) {
	l, err := New(Options{Level: "debug", MaxLines: 3})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		l.Zap().Debug(fmt.Sprintf("line %d", i))
	}
	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "line 2")
	assert.Contains(t, lines[2], "line 4")
	assert.NoError(t, l.Close())
}

func TestLogger_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
