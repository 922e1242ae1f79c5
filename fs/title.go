package fs

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfialko/folio"
)

// Ensure TitleExtractor implements folio.TitleExtractor at compile time.
var _ folio.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor resolves display titles from markdown headings.
type TitleExtractor struct {
	// Logger receives per-file extraction failures. Optional.
	Logger *slog.Logger
}

// ExtractTitle returns the title for the markdown file at path: the
// trimmed remainder of the first line whose trimmed form starts with
// "# " (exactly one hash and a space). Deeper headings never match.
// When no line qualifies or the file cannot be read, the base filename
// without extension is returned instead; errors are logged, never
// propagated.
func (e *TitleExtractor) ExtractTitle(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		e.logger().Error("title extraction failed", "path", path, "err", err)
		return fallback
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	// Markdown lines can exceed bufio's 64K default.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	if err := sc.Err(); err != nil {
		e.logger().Error("title extraction failed", "path", path, "err", err)
	}

	return fallback
}

func (e *TitleExtractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
