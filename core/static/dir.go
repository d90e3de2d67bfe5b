package static

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/autoindex/core/handler"
	"github.com/dmitrymomot/autoindex/core/logger"
	"github.com/dmitrymomot/autoindex/core/response"
)

// Dir creates a handler that serves files from a directory.
// Directory listing is disabled by default for security.
// Panics at startup if the directory doesn't exist or the listing format
// has no renderer.
// Use DirOption functions to customize behavior.
func Dir[C handler.Context](root string, opts ...DirOption) handler.HandlerFunc[C] {
	config := &dirConfig{
		root:      filepath.Clean(root),
		exactSize: true,
		format:    FormatHTML,
		indexFile: "index.html",
		logger:    logger.Nop(),
		recorder:  nopRecorder{},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := validateStartup(config.root); err != nil {
		panic("static.Dir: " + err.Error())
	}
	if err := config.format.Validate(); err != nil {
		panic("static.Dir: " + err.Error())
	}

	res, err := newResolver(config.root, config.dotfiles, config.followSymlink)
	if err != nil {
		panic("static.Dir: " + err.Error())
	}

	s := &dirServer{
		config:   config,
		resolver: res,
		lookups:  newLookupGroup(),
	}

	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			return s.serve(ctx, w, r)
		}
	}
}

type dirServer struct {
	config   *dirConfig
	resolver *resolver
	lookups  *lookupGroup
}

func (s *dirServer) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	urlPath := r.URL.Path
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	// Clean the URL path to prevent directory traversal
	cleanPath := path.Clean(urlPath)

	if s.config.stripPrefix != "" {
		stripped, ok := stripPathPrefix(cleanPath, s.config.stripPrefix)
		if !ok {
			http.NotFound(w, r)
			return nil
		}
		cleanPath = stripped
	}
	rel := strings.TrimPrefix(cleanPath, "/")

	v, shared, err := s.lookups.do(ctx, rel, func() (Verdict, error) {
		return s.resolver.resolve(rel)
	})
	if err != nil {
		if ctx.Err() != nil {
			// Client went away while queued; there is no one to answer.
			return nil
		}
		s.config.logger.ErrorContext(ctx, "static: path resolution failed",
			logger.Component("static"),
			logger.Path(rel),
			logger.Error(err),
		)
		return err
	}
	s.config.recorder.ObserveLookup(v.Kind.String(), shared)

	switch v.Kind {
	case VerdictFile:
		return s.serveFile(w, r, v)
	case VerdictDirectory:
		return s.serveDir(ctx, w, r, rel, v)
	case VerdictMissing:
		return s.fallback(s.config.notFoundHandler, rel, w, r)
	default:
		// Rejected paths look exactly like missing ones but never reach the
		// fallback handler.
		http.NotFound(w, r)
		return nil
	}
}

func (s *dirServer) serveFile(w http.ResponseWriter, r *http.Request, v Verdict) error {
	f, err := os.Open(v.Path)
	if err != nil {
		if isMissing(err) {
			http.NotFound(w, r)
			return nil
		}
		return fmt.Errorf("static: open %s: %w", v.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("static: stat %s: %w", v.Path, err)
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return nil
	}

	// http.ServeContent handles Range requests, If-Modified-Since, and content type detection
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return nil
}

func (s *dirServer) serveDir(ctx context.Context, w http.ResponseWriter, r *http.Request, rel string, v Verdict) error {
	hasSlash := strings.HasSuffix(r.URL.Path, "/")

	index, err := s.indexFor(v.Path)
	if err != nil {
		return err
	}
	if index.Found() {
		if !hasSlash {
			return redirectToSlash(w, r)
		}
		return s.serveFile(w, r, index)
	}

	if s.config.notFoundDir != nil {
		return s.fallback(s.config.notFoundDir, rel, w, r)
	}
	if !s.config.autoindex {
		http.NotFound(w, r)
		return nil
	}
	if !hasSlash {
		return redirectToSlash(w, r)
	}

	start := time.Now()
	loc := time.UTC
	if s.config.localtime && s.config.format == FormatHTML {
		loc = time.Local
	}

	listing, err := buildListing(ctx, v.Path, listingPolicy{
		dotfiles:      s.config.dotfiles,
		followSymlink: s.config.followSymlink,
		location:      loc,
	})
	if err != nil {
		if errors.Is(err, ErrListingGone) {
			http.NotFound(w, r)
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		s.config.logger.ErrorContext(ctx, "static: directory listing failed",
			logger.Component("static"),
			logger.Path(rel),
			logger.Error(err),
		)
		return err
	}

	resp, err := render(s.config.format, listing, view{
		routePath: r.URL.Path,
		parent:    rel != "",
		exactSize: s.config.exactSize,
	})
	if err != nil {
		return err
	}

	took := time.Since(start)
	s.config.recorder.ObserveListing(s.config.format.String(), listing.Len(), took)
	s.config.logger.DebugContext(ctx, "static: directory listed",
		logger.Component("static"),
		logger.Path(rel),
		logger.Format(s.config.format.String()),
		logger.Count("entries", listing.Len()),
		logger.Duration(took),
	)

	return resp(w, r)
}

// indexFor returns a file verdict for the directory's index file, or a
// missing verdict when there is none.
func (s *dirServer) indexFor(dir string) (Verdict, error) {
	if s.config.indexFile == "" {
		return Verdict{Kind: VerdictMissing}, nil
	}
	full := filepath.Join(dir, s.config.indexFile)
	info, err := os.Stat(full)
	if err != nil {
		if isMissing(err) {
			return Verdict{Kind: VerdictMissing}, nil
		}
		return Verdict{}, fmt.Errorf("static: stat %s: %w", full, err)
	}
	if info.IsDir() {
		return Verdict{Kind: VerdictMissing}, nil
	}
	return Verdict{Kind: VerdictFile, Path: full, Info: info}, nil
}

func (s *dirServer) fallback(fn FallbackFunc, rel string, w http.ResponseWriter, r *http.Request) error {
	if fn != nil {
		if resp := fn(rel, r); resp != nil {
			return resp(w, r)
		}
	}
	http.NotFound(w, r)
	return nil
}

// redirectToSlash sends the canonical directory URL, keeping the query.
// The path is re-escaped so reserved characters in names survive.
func redirectToSlash(w http.ResponseWriter, r *http.Request) error {
	target := r.URL.EscapedPath() + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return response.RedirectPermanent(target)(w, r)
}

// stripPathPrefix removes prefix from a cleaned path on a segment boundary.
func stripPathPrefix(p, prefix string) (string, bool) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return p, true
	}
	if p == prefix {
		return "/", true
	}
	if strings.HasPrefix(p, prefix+"/") {
		return p[len(prefix):], true
	}
	return "", false
}
