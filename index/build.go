// Package index provides index generation orchestration. It
// coordinates content scanning, title resolution, sorting, and
// manifest writing.
package index

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/collate"
)

// Builder regenerates the navigation manifest for a content tree.
type Builder struct {
	Scanner  folio.Scanner
	Titles   folio.TitleExtractor
	Writer   folio.IndexWriter
	Collator *collate.Collator
}

// Result holds the outcome of an index build.
type Result struct {
	Folders int
	Files   int
	Index   folio.Index
}

// Build scans the content tree rooted at root, resolves titles,
// sorts files in natural order and folders lexicographically, and
// overwrites <root>/index.json. When out is non-nil a human-readable
// summary is written to it.
//
// Any scan or write error is returned to the caller; per-file title
// failures degrade to filename-derived titles inside the extractor
// and never abort the build.
func (b *Builder) Build(ctx context.Context, root string, out io.Writer) (*Result, error) {
	scanned, err := b.Scanner.Scan(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("content scan: %w", err)
	}

	collator := b.Collator
	if collator == nil {
		collator = collate.New()
	}

	index := folio.Index{}
	files := 0
	for _, sf := range scanned {
		sort.SliceStable(sf.Files, func(i, j int) bool {
			return collator.Less(sf.Files[i].Path, sf.Files[j].Path)
		})

		folder := folio.Folder{Name: sf.Name, Path: sf.Name}
		for _, fi := range sf.Files {
			title := b.Titles.ExtractTitle(filepath.Join(root, filepath.FromSlash(fi.Path)))
			folder.Files = append(folder.Files, folio.Entry{
				Name:  fi.Name,
				Path:  fi.Path,
				Title: title,
			})
		}
		files += len(folder.Files)
		index = append(index, folder)
	}

	sort.Slice(index, func(i, j int) bool {
		return index[i].Name < index[j].Name
	})

	path := filepath.Join(root, folio.IndexFileName)
	if err := b.Writer.WriteIndex(ctx, path, index); err != nil {
		return nil, fmt.Errorf("index write: %w", err)
	}

	res := &Result{Folders: len(index), Files: files, Index: index}
	if out != nil {
		printSummary(out, res)
	}
	return res, nil
}

// printSummary writes the folder count, file count, and nested listing.
func printSummary(out io.Writer, res *Result) {
	fmt.Fprintf(out, "Indexed %d folders, %d files\n", res.Folders, res.Files)
	for _, folder := range res.Index {
		fmt.Fprintf(out, "%s/\n", folder.Name)
		for _, f := range folder.Files {
			fmt.Fprintf(out, "  %s  %s\n", f.Path, f.Title)
		}
	}
}
