package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/dotnetappdev/renameit/internal/media"
)

// ScanOptions controls which files Collect returns.
type ScanOptions struct {
	Recursive bool
	// MaxDepth limits how many directory levels below the input are
	// searched when Recursive is set. Negative means unlimited.
	MaxDepth int
	// Extensions are matched case-insensitively and include the leading
	// dot. Empty selects media.DefaultVideoExtensions.
	Extensions []string
}

// Collect returns the files to rename under input, sorted by path. A regular
// file input is returned as is, whatever its extension.
func Collect(ctx context.Context, input string, opts ScanOptions) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", input, err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = media.DefaultVideoExtensions
	}
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	root := filepath.Clean(input)
	var (
		mu    sync.Mutex
		files []string
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recursive || (opts.MaxDepth >= 0 && depth(root, path) > opts.MaxDepth) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		mu.Lock()
		files = append(files, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", input, err)
	}

	slices.Sort(files)
	return files, nil
}

// depth counts the directory levels of path below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
