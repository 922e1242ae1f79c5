package fs

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mfialko/folio"
)

// Ensure Writer implements folio.IndexWriter at compile time.
var _ folio.IndexWriter = (*Writer)(nil)

// Writer persists an index as pretty-printed JSON, overwriting any
// previous manifest wholesale.
type Writer struct{}

// WriteIndex serializes the index with 2-space indentation and writes
// it to path.
func (w *Writer) WriteIndex(ctx context.Context, path string, index folio.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
