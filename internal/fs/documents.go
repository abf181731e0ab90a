// Package fs resolves the files the CLI works on.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions treated as OIS documents.
var DefaultExtensions = []string{".json", ".yaml", ".yml"}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// HasExtension reports whether path ends with one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(extensions, func(e string) bool { return strings.ToLower(e) == ext })
}

// ListDocuments walks dir and returns the files with one of the given extensions,
// sorted. Hidden files and directories are skipped.
func ListDocuments(dir string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && HasExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ExpandPaths replaces each directory in paths with the documents it contains.
// Files are kept as given, whatever their extension. Duplicates are dropped and
// the first occurrence wins.
func ExpandPaths(paths []string, extensions []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		docs, err := ListDocuments(p, extensions)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			add(d)
		}
	}
	return out, nil
}
