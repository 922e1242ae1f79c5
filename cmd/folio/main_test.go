package main_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfialko/folio"
	main "github.com/mfialko/folio/cmd/folio"
	"github.com/mfialko/folio/mem"
	"github.com/mfialko/folio/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCmdIndex(t *testing.T) {
	t.Parallel()

	t.Run("generates index for content tree", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "java", "01-intro.md"), "# Introduction to Java\n\nBody.")
		writeFile(t, filepath.Join(root, "java", "02-oop.md"), "# Object Oriented Programming\n")
		writeFile(t, filepath.Join(root, "go", "basics.md"), "# Go Basics\n")

		m := main.NewMain()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"index", root}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Indexed 2 folders, 3 files")
		assert.Contains(t, stdout.String(), "java/01-intro.md  Introduction to Java")
		assert.Contains(t, stdout.String(), "go/basics.md  Go Basics")
		assert.Empty(t, stderr.String())

		data, err := os.ReadFile(filepath.Join(root, "index.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title": "Introduction to Java"`)
	})

	t.Run("shallow flag skips nested files", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		writeFile(t, filepath.Join(root, "notes", "top.md"), "# Top\n")
		writeFile(t, filepath.Join(root, "notes", "nested", "deep.md"), "# Deep\n")

		m := main.NewMain()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"index", root, "--shallow"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Indexed 1 folders, 1 files")
		assert.Contains(t, stdout.String(), "notes/top.md")
		assert.NotContains(t, stdout.String(), "deep.md")
	})

	t.Run("returns error for missing content directory", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"index", filepath.Join(t.TempDir(), "missing")}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestCmdServe(t *testing.T) {
	t.Parallel()

	t.Run("fails when a precache fetch is not OK", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Storage = mem.NewStorage()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *folio.Request) (*folio.Response, error) {
				return &folio.Response{Status: http.StatusNotFound, Type: folio.ResponseBasic}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"serve", "--addr", "127.0.0.1:0"}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, folio.EUNAVAILABLE, folio.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("installs, activates and shuts down on context cancel", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Storage = mem.NewStorage()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *folio.Request) (*folio.Response, error) {
				return &folio.Response{
					Status: http.StatusOK,
					Type:   folio.ResponseBasic,
					Body:   []byte("asset"),
				}, nil
			},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Serving on")
	})

	t.Run("returns error for unknown mode override", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"serve", "--mode", "sometimes"}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, folio.EINVALID, folio.ErrorCode(err))
	})
}

func TestCmdSync(t *testing.T) {
	t.Parallel()

	t.Run("refreshes the cached index", func(t *testing.T) {
		t.Parallel()

		storage := mem.NewStorage()
		m := main.NewMain()
		m.Storage = storage
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *folio.Request) (*folio.Response, error) {
				assert.Equal(t, "/content/index.json", req.URL)
				return &folio.Response{
					Status: http.StatusOK,
					Type:   folio.ResponseBasic,
					Body:   []byte(`[{"name":"java","path":"java","files":[]}]`),
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"sync",
			"--origin", "http://reader.local",
			"--cache", filepath.Join(t.TempDir(), "unused.db"),
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Sync")
		assert.Contains(t, stderr.String(), "index refreshed")

		cache, err := storage.Open(testContext(), "folio-static-v1")
		require.NoError(t, err)
		resp, err := cache.Match(testContext(), "/content/index.json")
		require.NoError(t, err)
		assert.Contains(t, string(resp.Body), `"java"`)
	})

	t.Run("ignores unrelated tags", func(t *testing.T) {
		t.Parallel()

		fetched := 0
		storage := mem.NewStorage()
		m := main.NewMain()
		m.Storage = storage
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *folio.Request) (*folio.Response, error) {
				fetched++
				return &folio.Response{Status: http.StatusOK, Type: folio.ResponseBasic}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"sync",
			"--origin", "http://reader.local",
			"--cache", filepath.Join(t.TempDir(), "unused.db"),
			"--tag", "unrelated",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, 0, fetched)

		cache, err := storage.Open(testContext(), "folio-static-v1")
		require.NoError(t, err)
		_, err = cache.Match(testContext(), "/content/index.json")
		assert.Equal(t, folio.ENOTFOUND, folio.ErrorCode(err))
	})

	t.Run("returns error for malformed config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "folio.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: [unclosed"), 0644))

		m := main.NewMain()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"sync",
			"--origin", "http://reader.local",
			"--cache", filepath.Join(t.TempDir(), "unused.db"),
			"--config", path,
		}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, folio.EINVALID, folio.ErrorCode(err))
	})
}

func TestRun_HelpFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"--help flag", []string{"--help"}},
		{"-h flag", []string{"-h"}},
		{"help command", []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := main.NewMain()

			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}

			err := m.Run(testContext(), tt.args, stdout, stderr)

			require.NoError(t, err)
			// Usage should be printed to stdout (not stderr) when explicitly requested
			assert.Contains(t, stdout.String(), "Usage: folio")
			assert.Contains(t, stdout.String(), "Commands:")
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(testContext(), []string{}, stdout, stderr)

	// No args should show usage to stdout and return error
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage: folio")
}
