package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Mono.OTF"))
	touch(t, filepath.Join(dir, "README.md"))

	got, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Bold.ttf", "Mono.OTF"}, got)

	got, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))
	touch(t, filepath.Join(dir, "Google_Sans_Code", "GoogleSansCode-Medium.ttf"))

	got, err := Find("inter", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"), got)

	got, err = Find("Google Sans", dir)
	require.NoError(t, err)
	assert.Equal(t, "GoogleSansCode-Medium.ttf", filepath.Base(got))

	direct := filepath.Join(dir, "Inter", "Inter-Bold.ttf")
	got, err = Find(direct, "/nonexistent")
	require.NoError(t, err)
	assert.Equal(t, direct, got)

	_, err = Find("Comic", dir)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Find("  ", dir)
	assert.ErrorIs(t, err, ErrNotFound)
}
