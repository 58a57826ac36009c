package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// SourceExtension is the extension of the files that are analyzed
const SourceExtension = ".cs"

// FileLister finds source files under a root directory
type FileLister struct {
	Excludes []string
	Logger   *logrus.Logger
}

// NewFileLister creates a new file lister; excludes are doublestar globs matched against
// slash-separated paths relative to the root
func NewFileLister(excludes []string, logger *logrus.Logger) (*FileLister, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &FileLister{
		Excludes: excludes,
		Logger:   logger,
	}, nil
}

// ScanRoot returns the directory to scan: root, or root/module when a module is given
func ScanRoot(root, module string) string {
	if module == "" {
		return root
	}
	return filepath.Join(root, module)
}

// ListFiles returns the absolute paths of all source files under root in lexical order
func (fl *FileLister) ListFiles(root string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != absRoot && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), SourceExtension) {
			return nil
		}

		if fl.excluded(absRoot, path) {
			fl.Logger.Debugf("Skipping excluded file: %s", path)
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}

	fl.Logger.Infof("Found %d source files under %s", len(files), absRoot)
	return files, nil
}

// excluded reports whether path matches one of the exclude patterns
func (fl *FileLister) excluded(root, path string) bool {
	if len(fl.Excludes) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range fl.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
