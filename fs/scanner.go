// Package fs provides filesystem implementations of content scanning,
// title extraction, and index writing.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfialko/folio"
)

// Ensure Scanner implements folio.Scanner at compile time.
var _ folio.Scanner = (*Scanner)(nil)

// Scanner discovers markdown files under a content root, grouped by
// top-level folder. By default each top-level folder aggregates
// markdown files from its whole subtree; Shallow restores the
// one-level behavior.
type Scanner struct {
	// Shallow limits discovery to files directly inside each
	// top-level folder.
	Shallow bool
}

// Scan lists the eligible markdown files beneath root. Hidden
// directories are pruned at every depth; folders that yield no
// markdown files are omitted.
func (s *Scanner) Scan(ctx context.Context, root string) ([]folio.ScannedFolder, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var folders []folio.ScannedFolder
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}

		var files []folio.FileInfo
		if s.Shallow {
			files, err = s.scanShallow(root, e.Name())
		} else {
			files, err = s.scanTree(ctx, root, e.Name())
		}
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}

		folders = append(folders, folio.ScannedFolder{Name: e.Name(), Files: files})
	}

	return folders, nil
}

// scanShallow lists markdown files directly inside root/folder.
func (s *Scanner) scanShallow(root, folder string) ([]folio.FileInfo, error) {
	entries, err := os.ReadDir(filepath.Join(root, folder))
	if err != nil {
		return nil, err
	}

	var files []folio.FileInfo
	for _, e := range entries {
		if e.IsDir() || !markdown(e.Name()) {
			continue
		}
		files = append(files, folio.FileInfo{
			Name: e.Name(),
			Path: folder + "/" + e.Name(),
		})
	}
	return files, nil
}

// scanTree walks root/folder recursively, pruning hidden directories.
func (s *Scanner) scanTree(ctx context.Context, root, folder string) ([]folio.FileInfo, error) {
	base := filepath.Join(root, folder)

	var files []folio.FileInfo
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if path != base && hidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !markdown(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, folio.FileInfo{
			Name: d.Name(),
			Path: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func markdown(name string) bool {
	return strings.HasSuffix(name, folio.MarkdownExt)
}
