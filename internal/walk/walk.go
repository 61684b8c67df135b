// Package walk selects input files under a directory with doublestar globs.
package walk

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// File is one selected input.
type File struct {
	Path    string // absolute
	Rel     string // relative to the walk root, slash-separated
	ModTime time.Time
	Size    int64
}

// Walker matches relative paths against include and exclude patterns.
type Walker struct {
	includes []string
	excludes []string
}

// New creates a Walker. With no includes every file matches.
func New(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk returns the matching files under root in lexical order.
func (w *Walker) Walk(root string) ([]File, error) {
	var files []File

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.Excluded(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.Included(relPath) && !w.Excluded(relPath) {
			files = append(files, File{
				Path:    path,
				Rel:     relPath,
				ModTime: info.ModTime(),
				Size:    info.Size(),
			})
		}

		return nil
	})

	return files, err
}

// Included reports whether rel matches an include pattern.
func (w *Walker) Included(rel string) bool {
	return matchAny(w.includes, rel)
}

// Excluded reports whether rel matches an exclude pattern.
func (w *Walker) Excluded(rel string) bool {
	return matchAny(w.excludes, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
