package mock

import (
	"context"

	"github.com/mfialko/folio"
)

var _ folio.Scanner = (*Scanner)(nil)

// Scanner is a mock implementation of folio.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context, root string) ([]folio.ScannedFolder, error)
}

func (s *Scanner) Scan(ctx context.Context, root string) ([]folio.ScannedFolder, error) {
	return s.ScanFn(ctx, root)
}

var _ folio.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of folio.TitleExtractor.
type TitleExtractor struct {
	ExtractTitleFn func(path string) string
}

func (e *TitleExtractor) ExtractTitle(path string) string {
	return e.ExtractTitleFn(path)
}

var _ folio.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of folio.IndexWriter.
type IndexWriter struct {
	WriteIndexFn func(ctx context.Context, path string, index folio.Index) error
}

func (w *IndexWriter) WriteIndex(ctx context.Context, path string, index folio.Index) error {
	return w.WriteIndexFn(ctx, path, index)
}
