// Package static serves files from a directory and, when enabled, generates
// directory listings (autoindex) in HTML, XML or JSON.
//
// # Basic Usage
//
// Dir returns a handler.HandlerFunc[C] that can be mounted on any mux through
// handler.Adapt:
//
//	files := static.Dir[*handler.RequestContext]("./public",
//		static.WithStripPrefix("/files"),
//		static.WithAutoindex(true),
//	)
//	mux.Handle("/files/", handler.Adapt(files, handler.NewContext, response.ErrorHandler))
//
// Directory listing is disabled by default. A directory request is served in
// this order: the index file (index.html unless changed with WithIndexFile),
// the WithNotFoundDir handler, a 404 when autoindex is off, a 301 redirect to
// the trailing-slash URL, and finally the generated listing.
//
// # Listing Formats
//
// WithFormat selects FormatHTML (default), FormatXML or FormatJSON.
// FormatJSONP is recognized but has no renderer; Dir panics when it is
// configured, as it does for a root that is not a directory.
//
//	static.Dir[*handler.RequestContext]("./data",
//		static.WithAutoindex(true),
//		static.WithFormat(static.FormatJSON),
//	)
//
// JSON listings are arrays of {"type", "name", "size", "mtime"} objects with
// RFC 1123 times. XML listings use a <list> root with <directory> and <file>
// children. Both always report UTC; WithLocaltime only affects HTML.
//
// # Hidden Files and Symlinks
//
// Names starting with a dot are treated as missing and left out of listings
// unless WithDotfiles(true) is set. A request for a hidden path never reaches
// the WithNotFound handler and produces the same 404 as a path that does not
// exist.
//
// Symlinks that resolve outside the root are not served, and symlinked
// children are not listed, unless WithFollowSymlink(true) is set.
//
// # Concurrency
//
// Concurrent requests for the same path share a single filesystem lookup.
// Requests for different paths never wait on each other.
//
// # Configuration
//
// Config carries the same settings with STATIC_* environment tags:
//
//	cfg := config.MustLoad[static.Config]()
//	h := static.Dir[*handler.RequestContext](cfg.Root, static.WithConfig(cfg))
package static
