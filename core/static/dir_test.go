package static_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoindex/core/handler"
	"github.com/dmitrymomot/autoindex/core/response"
	"github.com/dmitrymomot/autoindex/core/static"
)

func serve(t *testing.T, h handler.HandlerFunc[*handler.RequestContext], target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	resp := h(handler.NewContext(w, req))
	require.NoError(t, resp(w, req))
	return w
}

func newTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("file content"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".secret"), []byte("hidden"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "config"), []byte("x"), 0644))

	docs := filepath.Join(root, "docs")
	require.NoError(t, os.Mkdir(docs, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "readme.md"), []byte("# readme"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(docs, "img"), 0755))

	site := filepath.Join(root, "site")
	require.NoError(t, os.Mkdir(site, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "index.html"), []byte("<html>Site</html>"), 0644))

	return root
}

func TestDir(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root, static.WithAutoindex(true))

	tests := []struct {
		name           string
		urlPath        string
		expectedStatus int
		expectedBody   string
		location       string
	}{
		{
			name:           "serve_file",
			urlPath:        "/file.txt",
			expectedStatus: http.StatusOK,
			expectedBody:   "file content",
		},
		{
			name:           "serve_nested_file",
			urlPath:        "/docs/readme.md",
			expectedStatus: http.StatusOK,
			expectedBody:   "# readme",
		},
		{
			name:           "serve_index_with_slash",
			urlPath:        "/site/",
			expectedStatus: http.StatusOK,
			expectedBody:   "<html>Site</html>",
		},
		{
			name:           "index_without_slash_redirects",
			urlPath:        "/site",
			expectedStatus: http.StatusMovedPermanently,
			location:       "/site/",
		},
		{
			name:           "directory_without_slash_redirects",
			urlPath:        "/docs",
			expectedStatus: http.StatusMovedPermanently,
			location:       "/docs/",
		},
		{
			name:           "redirect_keeps_query",
			urlPath:        "/docs?sort=name",
			expectedStatus: http.StatusMovedPermanently,
			location:       "/docs/?sort=name",
		},
		{
			name:           "missing_file",
			urlPath:        "/nope.txt",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "404 page not found\n",
		},
		{
			name:           "missing_below_file",
			urlPath:        "/file.txt/child",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "404 page not found\n",
		},
		{
			name:           "dotfile_hidden",
			urlPath:        "/.secret",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "404 page not found\n",
		},
		{
			name:           "dot_directory_hidden",
			urlPath:        "/.git/config",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "404 page not found\n",
		},
		{
			name:           "traversal_cleaned",
			urlPath:        "/docs/../file.txt",
			expectedStatus: http.StatusOK,
			expectedBody:   "file content",
		},
		{
			name:           "overlong_name",
			urlPath:        "/" + strings.Repeat("a", 256),
			expectedStatus: http.StatusNotFound,
			expectedBody:   "404 page not found\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, h, tt.urlPath)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestDirMissingAndRejectedLookAlike(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root)

	hidden := serve(t, h, "/.secret")
	missing := serve(t, h, "/.nothing-here")
	absent := serve(t, h, "/nothing-here")

	for _, w := range []*httptest.ResponseRecorder{hidden, missing, absent} {
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, absent.Body.String(), w.Body.String())
		assert.Equal(t, absent.Header().Get("Content-Type"), w.Header().Get("Content-Type"))
	}
}

func TestDirDotfilesEnabled(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root,
		static.WithDotfiles(true),
		static.WithAutoindex(true),
		static.WithFormat(static.FormatJSON),
	)

	w := serve(t, h, "/.secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hidden", w.Body.String())

	w = serve(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, listedNames(t, w), ".git")
	assert.Contains(t, listedNames(t, w), ".secret")
}

func TestDirAutoindexDisabled(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root)

	// Without autoindex there is nothing to canonicalize, so no redirect.
	for _, p := range []string{"/docs", "/docs/", "/"} {
		w := serve(t, h, p)
		assert.Equal(t, http.StatusNotFound, w.Code, p)
	}

	w := serve(t, h, "/site/")
	assert.Equal(t, http.StatusOK, w.Code)
}

type jsonItem struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Size  *int64 `json:"size"`
	MTime string `json:"mtime"`
}

func decodeListing(t *testing.T, w *httptest.ResponseRecorder) []jsonItem {
	t.Helper()

	var items []jsonItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	return items
}

func listedNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	var names []string
	for _, it := range decodeListing(t, w) {
		names = append(names, it.Name)
	}
	return names
}

func TestDirJSONListing(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	mtime := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, "file.txt"), mtime, mtime))

	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithFormat(static.FormatJSON),
	)

	w := serve(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	items := decodeListing(t, w)
	require.Len(t, items, 3)

	// Directories come first; dotfiles are not listed.
	assert.Equal(t, "directory", items[0].Type)
	assert.Equal(t, "directory", items[1].Type)
	assert.Nil(t, items[0].Size)
	assert.ElementsMatch(t, []string{"docs", "site"}, []string{items[0].Name, items[1].Name})

	file := items[2]
	assert.Equal(t, "file", file.Type)
	assert.Equal(t, "file.txt", file.Name)
	require.NotNil(t, file.Size)
	assert.Equal(t, int64(len("file content")), *file.Size)
	assert.Equal(t, "Sat, 04 Mar 2023 05:06:07 GMT", file.MTime)
}

func TestDirXMLListing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mtime := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.bin"), []byte("abc"), 0644))
	require.NoError(t, os.Chtimes(filepath.Join(root, "sub"), mtime, mtime))
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.bin"), mtime, mtime))

	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithFormat(static.FormatXML),
		// XML ignores localtime.
		static.WithLocaltime(true),
	)

	w := serve(t, h, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<list>`+
			`<directory name="sub" mtime="2023-03-04T05:06:07Z"></directory>`+
			`<file name="a.bin" mtime="2023-03-04T05:06:07Z" size="3"></file>`+
			`</list>`,
		w.Body.String())
}

func TestDirHTMLListing(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "big.bin"), make([]byte, 2048), 0644))

	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithExactSize(false),
	)

	w := serve(t, h, "/docs/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Index of /docs/")
	assert.Contains(t, body, `href="../"`)
	assert.Contains(t, body, `href="./img/"`)
	assert.Contains(t, body, `href="./readme.md"`)
	assert.Contains(t, body, "<td>2K</td>")
	assert.Contains(t, body, "<td>8</td>")
}

func TestDirSymlinks(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "target.txt"), []byte("outside"), 0644))

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.txt"), []byte("plain"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "inner.txt"), []byte("inner"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "escape.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "inner.txt"), filepath.Join(root, "alias.txt")))

	t.Run("not_followed", func(t *testing.T) {
		t.Parallel()

		h := static.Dir[*handler.RequestContext](root,
			static.WithAutoindex(true),
			static.WithFormat(static.FormatJSON),
		)

		assert.Equal(t, http.StatusNotFound, serve(t, h, "/escape.txt").Code)
		assert.ElementsMatch(t, []string{"plain.txt", "inner.txt"}, listedNames(t, serve(t, h, "/")))
	})

	t.Run("followed", func(t *testing.T) {
		t.Parallel()

		h := static.Dir[*handler.RequestContext](root,
			static.WithAutoindex(true),
			static.WithFormat(static.FormatJSON),
			static.WithFollowSymlink(true),
		)

		w := serve(t, h, "/escape.txt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "outside", w.Body.String())

		assert.ElementsMatch(t,
			[]string{"plain.txt", "inner.txt", "escape.txt", "alias.txt"},
			listedNames(t, serve(t, h, "/")))
	})
}

func TestDirFallbacks(t *testing.T) {
	t.Parallel()

	root := newTree(t)

	notFound := func(path string, r *http.Request) handler.Response {
		return response.StringWithStatus("custom missing: "+path, http.StatusNotFound)
	}
	notFoundDir := func(path string, r *http.Request) handler.Response {
		return response.StringWithStatus("no index: "+path, http.StatusForbidden)
	}

	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithNotFound(notFound),
		static.WithNotFoundDir(notFoundDir),
	)

	t.Run("missing_uses_not_found", func(t *testing.T) {
		t.Parallel()

		w := serve(t, h, "/docs/gone.txt")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "custom missing: docs/gone.txt", w.Body.String())
	})

	t.Run("rejected_skips_not_found", func(t *testing.T) {
		t.Parallel()

		w := serve(t, h, "/.secret")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "404 page not found\n", w.Body.String())
	})

	t.Run("directory_uses_not_found_dir_over_autoindex", func(t *testing.T) {
		t.Parallel()

		w := serve(t, h, "/docs/")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "no index: docs", w.Body.String())
	})

	t.Run("index_wins_over_not_found_dir", func(t *testing.T) {
		t.Parallel()

		w := serve(t, h, "/site/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>Site</html>", w.Body.String())
	})

	t.Run("nil_fallback_response_is_plain_404", func(t *testing.T) {
		t.Parallel()

		h := static.Dir[*handler.RequestContext](root,
			static.WithNotFound(func(string, *http.Request) handler.Response { return nil }),
		)
		w := serve(t, h, "/gone")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "404 page not found\n", w.Body.String())
	})
}

func TestDirIndexFile(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "README.txt"), []byte("readme index"), 0644))

	t.Run("custom_name", func(t *testing.T) {
		t.Parallel()

		h := static.Dir[*handler.RequestContext](root, static.WithIndexFile("README.txt"))
		w := serve(t, h, "/docs/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "readme index", w.Body.String())
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		h := static.Dir[*handler.RequestContext](root,
			static.WithIndexFile(""),
			static.WithAutoindex(true),
			static.WithFormat(static.FormatJSON),
		)
		w := serve(t, h, "/site/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"index.html"}, listedNames(t, w))
	})
}

func TestDirStripPrefix(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root,
		static.WithStripPrefix("/files/"),
		static.WithAutoindex(true),
	)

	tests := []struct {
		name           string
		urlPath        string
		expectedStatus int
		location       string
	}{
		{"file_under_prefix", "/files/file.txt", http.StatusOK, ""},
		{"prefix_root", "/files/", http.StatusOK, ""},
		{"directory_redirect_keeps_prefix", "/files/docs", http.StatusMovedPermanently, "/files/docs/"},
		{"outside_prefix", "/file.txt", http.StatusNotFound, ""},
		{"prefix_is_not_segment", "/filesx/file.txt", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, h, tt.urlPath)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestDirStripPrefixParentLink(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	h := static.Dir[*handler.RequestContext](root,
		static.WithStripPrefix("/files"),
		static.WithAutoindex(true),
	)

	w := serve(t, h, "/files/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Index of /files/")
	assert.NotContains(t, w.Body.String(), `href="../"`, "mount root must not link above the mount")

	w = serve(t, h, "/files/docs/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="../"`)
}

func TestDirRedirectKeepsEscaping(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"a?b", "100%", "x#y"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0755))
	}
	h := static.Dir[*handler.RequestContext](root, static.WithAutoindex(true))

	tests := []struct {
		urlPath  string
		location string
	}{
		{"/a%3Fb", "/a%3Fb/"},
		{"/100%25", "/100%25/"},
		{"/x%23y", "/x%23y/"},
		{"/a%3Fb?sort=name", "/a%3Fb/?sort=name"},
	}

	for _, tt := range tests {
		t.Run(tt.urlPath, func(t *testing.T) {
			t.Parallel()

			w := serve(t, h, tt.urlPath)
			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			// Following the redirect must land on the listing itself.
			w = serve(t, h, tt.location)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestDirIOErrorsAreServerErrors(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := newTree(t)

	// Unsearchable: stat of anything inside fails with EACCES.
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "file.txt"), []byte("x"), 0644))
	require.NoError(t, os.Chmod(locked, 0))

	// Searchable but unreadable: stat works, reading entries fails.
	opaque := filepath.Join(root, "opaque")
	require.NoError(t, os.Mkdir(opaque, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opaque, "file.txt"), []byte("x"), 0644))
	require.NoError(t, os.Chmod(opaque, 0o300))

	t.Cleanup(func() {
		_ = os.Chmod(locked, 0755)
		_ = os.Chmod(opaque, 0755)
	})

	h := static.Dir[*handler.RequestContext](root, static.WithAutoindex(true))

	t.Run("response_returns_error", func(t *testing.T) {
		for _, target := range []string{"/locked/file.txt", "/locked/", "/opaque/"} {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			w := httptest.NewRecorder()
			err := h(handler.NewContext(w, req))(w, req)
			require.Error(t, err, target)
			assert.ErrorIs(t, err, os.ErrPermission, target)
		}
	})

	t.Run("error_handler_renders_500", func(t *testing.T) {
		srv := handler.Adapt(h, handler.NewContext, response.ErrorHandler[*handler.RequestContext])
		for _, target := range []string{"/locked/file.txt", "/locked/", "/opaque/"} {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		}
	})

	t.Run("files_beside_are_unaffected", func(t *testing.T) {
		w := serve(t, h, "/file.txt")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDirClientGoneDuringListing(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	var logs bytes.Buffer
	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/docs/", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	err := h(handler.NewContext(w, req))(w, req)

	require.NoError(t, err, "a disconnected client is not a server failure")
	assert.NotEqual(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestDirConfig(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	cfg := static.DefaultConfig()
	cfg.Root = root
	cfg.Autoindex = true
	cfg.AutoindexFormat = static.FormatJSON

	h := static.Dir[*handler.RequestContext](cfg.Root, static.WithConfig(cfg))

	w := serve(t, h, "/docs/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"img", "readme.md"}, listedNames(t, w))
}

func TestDirStartupValidation(t *testing.T) {
	t.Parallel()

	root := newTree(t)

	assert.Panics(t, func() {
		static.Dir[*handler.RequestContext](filepath.Join(root, "missing"))
	})
	assert.Panics(t, func() {
		static.Dir[*handler.RequestContext](filepath.Join(root, "file.txt"))
	})
	assert.Panics(t, func() {
		static.Dir[*handler.RequestContext](root, static.WithFormat(static.FormatJSONP))
	})
	assert.Panics(t, func() {
		static.Dir[*handler.RequestContext](root, static.WithFormat("yaml"))
	})
	assert.NotPanics(t, func() {
		static.Dir[*handler.RequestContext](root, static.WithFormat(static.FormatXML))
	})
}

type countingRecorder struct {
	lookups  chan string
	listings chan string
}

func (r *countingRecorder) ObserveLookup(outcome string, _ bool) { r.lookups <- outcome }
func (r *countingRecorder) ObserveListing(format string, _ int, _ time.Duration) {
	r.listings <- format
}

func TestDirRecorder(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	rec := &countingRecorder{lookups: make(chan string, 4), listings: make(chan string, 4)}
	h := static.Dir[*handler.RequestContext](root,
		static.WithAutoindex(true),
		static.WithFormat(static.FormatJSON),
		static.WithRecorder(rec),
	)

	serve(t, h, "/docs/")
	serve(t, h, "/nope")

	assert.Equal(t, "directory", <-rec.lookups)
	assert.Equal(t, "missing", <-rec.lookups)
	assert.Equal(t, "json", <-rec.listings)
}
