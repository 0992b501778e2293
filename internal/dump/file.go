// Package dump provides dump file discovery, exclusion configuration, and
// the slim dump composer for goslim.
package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// File represents an on-disk dump artifact, captured at stat time.
type File struct {
	Path      string
	Name      string // logical name, base name without extension
	SizeBytes int64
	ModTime   time.Time
}

// NewFile stats the given path and builds a File from it.
func NewFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat dump file: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("failed to stat dump file: %s is a directory", path)
	}
	return File{
		Path:      path,
		Name:      BaseName(path),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// BaseName derives the logical name of a dump file: the base of the path
// without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover lists the .sql files of a directory as dump files, sorted by name.
// Subdirectories are not descended into.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		f, err := NewFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
