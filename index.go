package folio

import "context"

// MarkdownExt is the file extension that marks a file as content.
const MarkdownExt = ".md"

// IndexFileName is the name of the generated navigation manifest,
// written inside the content root.
const IndexFileName = "index.json"

// Entry describes one markdown file in the navigation index.
type Entry struct {
	Name  string `json:"name"`  // filename with extension
	Path  string `json:"path"`  // slash-separated, relative to the content root
	Title string `json:"title"` // resolved display title
}

// Folder groups the markdown files found under one top-level content
// directory. A folder appears in the index only if it holds at least
// one markdown file.
type Folder struct {
	Name  string  `json:"name"`
	Path  string  `json:"path"`
	Files []Entry `json:"files"`
}

// Validate returns an error if the folder contains invalid fields.
func (f *Folder) Validate() error {
	if f.Name == "" {
		return Errorf(EINVALID, "folder name required")
	}
	if len(f.Files) == 0 {
		return Errorf(EINVALID, "folder %q has no files", f.Name)
	}
	return nil
}

// Index is the generated navigation manifest: folders sorted
// lexicographically by name, each folder's files in natural order.
// It is pure derived data, regenerated wholesale on every build.
type Index []Folder

// FileInfo describes one markdown file discovered by a Scanner.
type FileInfo struct {
	Name string // base name with extension
	Path string // slash-separated, relative to the content root
}

// ScannedFolder is one top-level content directory and the markdown
// files discovered beneath it, in directory-listing order.
type ScannedFolder struct {
	Name  string
	Files []FileInfo
}

// Scanner discovers markdown files under a content root, grouped by
// top-level folder. Hidden directories (leading dot) are excluded at
// every depth; folders without markdown files are omitted.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]ScannedFolder, error)
}

// TitleExtractor resolves a display title for a markdown file.
// Implementations fail soft: when the file cannot be read or holds no
// qualifying heading, they return the base filename without extension
// and never propagate an error.
type TitleExtractor interface {
	ExtractTitle(path string) string
}

// IndexWriter persists a generated index.
type IndexWriter interface {
	WriteIndex(ctx context.Context, path string, index Index) error
}
