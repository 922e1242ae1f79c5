package index_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfialko/folio"
	"github.com/mfialko/folio/fs"
	"github.com/mfialko/folio/index"
	"github.com/mfialko/folio/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *index.Builder {
	return &index.Builder{
		Scanner: &fs.Scanner{},
		Titles:  &fs.TitleExtractor{},
		Writer:  &fs.Writer{},
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("java content tree", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"java/01-intro.md": "# Introduction to Java\n\nBody.\n",
			"java/02-oop.md":   "# Object-Oriented Programming in Java\n",
		})

		stdout := &bytes.Buffer{}
		res, err := newBuilder().Build(context.Background(), root, stdout)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Folders)
		assert.Equal(t, 2, res.Files)

		data, err := os.ReadFile(filepath.Join(root, "index.json"))
		require.NoError(t, err)

		var got folio.Index
		require.NoError(t, json.Unmarshal(data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "java", got[0].Name)
		require.Len(t, got[0].Files, 2)
		assert.Equal(t, "01-intro.md", got[0].Files[0].Name)
		assert.Equal(t, "Introduction to Java", got[0].Files[0].Title)
		assert.Equal(t, "02-oop.md", got[0].Files[1].Name)
		assert.Equal(t, "Object-Oriented Programming in Java", got[0].Files[1].Title)

		assert.Contains(t, stdout.String(), "1 folders, 2 files")
		assert.Contains(t, stdout.String(), "java/")
		assert.Contains(t, stdout.String(), "Introduction to Java")
	})

	t.Run("files sort in natural order", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"go/f10.md": "# Ten",
			"go/f2.md":  "# Two",
		})

		res, err := newBuilder().Build(context.Background(), root, nil)
		require.NoError(t, err)

		require.Len(t, res.Index, 1)
		require.Len(t, res.Index[0].Files, 2)
		assert.Equal(t, "f2.md", res.Index[0].Files[0].Name)
		assert.Equal(t, "f10.md", res.Index[0].Files[1].Name)
	})

	t.Run("folders sort lexicographically", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"rust/a.md": "# A",
			"go/b.md":   "# B",
			"java/c.md": "# C",
		})

		res, err := newBuilder().Build(context.Background(), root, nil)
		require.NoError(t, err)

		names := make([]string, 0, len(res.Index))
		for _, f := range res.Index {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"go", "java", "rust"}, names)
	})

	t.Run("running twice yields byte-identical output", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"java/01-intro.md": "# Introduction to Java\n",
			"java/02-oop.md":   "# OOP\n",
			"go/basics.md":     "no heading here\n",
		})

		b := newBuilder()
		_, err := b.Build(context.Background(), root, nil)
		require.NoError(t, err)
		first, err := os.ReadFile(filepath.Join(root, "index.json"))
		require.NoError(t, err)

		_, err = b.Build(context.Background(), root, nil)
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(root, "index.json"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("empty content root writes an empty array", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()

		res, err := newBuilder().Build(context.Background(), root, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Folders)

		data, err := os.ReadFile(filepath.Join(root, "index.json"))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("scan errors abort the build", func(t *testing.T) {
		t.Parallel()

		b := &index.Builder{
			Scanner: &mock.Scanner{
				ScanFn: func(ctx context.Context, root string) ([]folio.ScannedFolder, error) {
					return nil, fmt.Errorf("disk on fire")
				},
			},
			Titles: &mock.TitleExtractor{ExtractTitleFn: func(string) string { return "" }},
			Writer: &mock.IndexWriter{WriteIndexFn: func(context.Context, string, folio.Index) error { return nil }},
		}

		_, err := b.Build(context.Background(), t.TempDir(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "content scan")
	})

	t.Run("write errors abort the build", func(t *testing.T) {
		t.Parallel()

		b := &index.Builder{
			Scanner: &mock.Scanner{
				ScanFn: func(ctx context.Context, root string) ([]folio.ScannedFolder, error) {
					return []folio.ScannedFolder{
						{Name: "java", Files: []folio.FileInfo{{Name: "a.md", Path: "java/a.md"}}},
					}, nil
				},
			},
			Titles: &mock.TitleExtractor{ExtractTitleFn: func(string) string { return "A" }},
			Writer: &mock.IndexWriter{
				WriteIndexFn: func(context.Context, string, folio.Index) error {
					return fmt.Errorf("read-only filesystem")
				},
			},
		}

		_, err := b.Build(context.Background(), t.TempDir(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index write")
	})

	t.Run("titles resolve against the content root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"java/nested/deep.md": "# Deep Title\n",
		})

		var seen []string
		b := &index.Builder{
			Scanner: &fs.Scanner{},
			Titles: &mock.TitleExtractor{
				ExtractTitleFn: func(path string) string {
					seen = append(seen, path)
					return "t"
				},
			},
			Writer: &mock.IndexWriter{WriteIndexFn: func(context.Context, string, folio.Index) error { return nil }},
		}

		_, err := b.Build(context.Background(), root, nil)
		require.NoError(t, err)
		require.Len(t, seen, 1)
		assert.True(t, strings.HasPrefix(seen[0], root))
	})
}
