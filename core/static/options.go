package static

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/autoindex/core/handler"
)

// FallbackFunc produces the response for a path the handler could not serve.
// path is the request path relative to the served root, without a leading slash.
// Returning nil falls back to the default 404.
type FallbackFunc func(path string, r *http.Request) handler.Response

// Recorder receives lookup and listing observations, e.g. for metrics.
type Recorder interface {
	ObserveLookup(outcome string, shared bool)
	ObserveListing(format string, entries int, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLookup(string, bool)                {}
func (nopRecorder) ObserveListing(string, int, time.Duration) {}

// dirConfig holds configuration for directory serving
type dirConfig struct {
	root            string
	stripPrefix     string
	dotfiles        bool
	autoindex       bool
	exactSize       bool
	localtime       bool
	format          Format
	followSymlink   bool
	indexFile       string
	notFoundHandler FallbackFunc
	notFoundDir     FallbackFunc
	logger          *slog.Logger
	recorder        Recorder
}

// DirOption configures directory serving behavior
type DirOption func(*dirConfig)

// WithStripPrefix removes the given prefix from the URL path before serving files.
// Requests outside the prefix get a 404.
func WithStripPrefix(prefix string) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = prefix
	}
}

// WithDotfiles controls access to names starting with a dot. When disabled
// (the default) such paths are indistinguishable from missing ones and are
// left out of listings.
func WithDotfiles(enabled bool) DirOption {
	return func(c *dirConfig) {
		c.dotfiles = enabled
	}
}

// WithAutoindex enables generated listings for directories without an index file.
func WithAutoindex(enabled bool) DirOption {
	return func(c *dirConfig) {
		c.autoindex = enabled
	}
}

// WithExactSize shows exact byte counts in HTML listings (default true).
// When false sizes are rounded to K, M, G... units.
func WithExactSize(exact bool) DirOption {
	return func(c *dirConfig) {
		c.exactSize = exact
	}
}

// WithLocaltime renders HTML listing times in the server's local zone
// instead of UTC. XML and JSON listings always use UTC.
func WithLocaltime(enabled bool) DirOption {
	return func(c *dirConfig) {
		c.localtime = enabled
	}
}

// WithFormat selects the listing format. Dir panics on unsupported values.
func WithFormat(f Format) DirOption {
	return func(c *dirConfig) {
		c.format = f
	}
}

// WithFollowSymlink serves symlinks that point outside the root and lists
// symlinked children. Disabled by default.
func WithFollowSymlink(enabled bool) DirOption {
	return func(c *dirConfig) {
		c.followSymlink = enabled
	}
}

// WithIndexFile sets the file served for directory requests (default
// "index.html"). An empty name disables index files.
func WithIndexFile(name string) DirOption {
	return func(c *dirConfig) {
		c.indexFile = name
	}
}

// WithNotFound sets a custom handler for paths that do not exist.
// This allows custom 404 pages or fallback behavior.
func WithNotFound(fn FallbackFunc) DirOption {
	return func(c *dirConfig) {
		c.notFoundHandler = fn
	}
}

// WithNotFoundDir sets a handler for directories without an index file.
// It takes precedence over autoindex.
func WithNotFoundDir(fn FallbackFunc) DirOption {
	return func(c *dirConfig) {
		c.notFoundDir = fn
	}
}

// WithLogger sets the logger for unexpected filesystem errors and listing timings.
func WithLogger(l *slog.Logger) DirOption {
	return func(c *dirConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the lookup and listing observer.
func WithRecorder(r Recorder) DirOption {
	return func(c *dirConfig) {
		if r != nil {
			c.recorder = r
		}
	}
}
