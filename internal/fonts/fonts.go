// Package fonts finds the font the debug overlay draws with.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Exts lists the extensions treated as font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate font directories, relative to the process cwd.
func BaseDirs() []string {
	return []string{"assets/fonts", "../../assets/fonts"}
}

// ScanDir returns the paths of all font files under dir, relative to dir
// and with forward slashes. A missing dir yields no paths.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
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

// normalizeForMatch lowercases and drops spaces, dashes and underscores.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Find searches bases for a font whose relative path contains search,
// ignoring case, spaces, dashes and underscores. When several match, a path
// containing "regular" wins, then the first one found. It returns the full
// path or os.ErrNotExist.
func Find(search string, bases []string) (string, error) {
	norm := normalizeForMatch(search)
	if norm == "" {
		return "", os.ErrNotExist
	}
	var matches []string
	for _, base := range bases {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				matches = append(matches, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}

// Fallback returns the embedded Go Regular font.
func Fallback() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
}

// Load returns a font source for search, which is a font file path or a
// name looked up with Find in bases. An empty search, or one that matches
// nothing, yields Fallback and an empty path. A font that is found but
// cannot be parsed is an error.
func Load(search string, bases []string) (src *text.FontSource, path string, err error) {
	search = strings.TrimSpace(search)
	if search == "" {
		src, err = Fallback()
		return src, "", err
	}
	path = search
	if fi, statErr := os.Stat(search); statErr != nil || fi.IsDir() || !isFont(search) {
		path, err = Find(search, bases)
		if errors.Is(err, os.ErrNotExist) {
			src, err = Fallback()
			return src, "", err
		}
		if err != nil {
			return nil, "", err
		}
	}
	src, err = text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("fonts: %s: %w", path, err)
	}
	return src, path, nil
}
