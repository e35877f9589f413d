package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Find when no font file matches.
var ErrNotFound = errors.New("fonts: no matching font")

// Exts are the file extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs are the default font directories, relative to the working directory, so fonts
// are found whether run from the repo root or cmd/game.
var BaseDirs = []string{"assets/fonts", "../../assets/fonts"}

// ScanDir returns the paths of all font files under dir, relative to dir with forward
// slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the full path of the first font under dirs whose relative path contains
// search, ignoring case, spaces, dashes and underscores. An existing file path is returned
// as is. When several files match, a "Regular" face wins.
func Find(search string, dirs ...string) (string, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", ErrNotFound
	}
	if st, err := os.Stat(search); err == nil && !st.IsDir() && isFont(search) {
		return search, nil
	}
	if len(dirs) == 0 {
		dirs = BaseDirs
	}
	want := normalize(search)
	var matches []string
	for _, dir := range dirs {
		list, err := ScanDir(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), want) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
