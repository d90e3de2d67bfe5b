package static

//go:generate templ generate -f autoindex.templ

import (
	"net/url"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type pageData struct {
	RoutePath   string
	Parent      bool
	ExactSize   bool
	Directories []Entry
	Files       []Entry
}

// sortedByName returns a copy ordered case-insensitively by name.
// A collator is not safe for concurrent use, so one is built per call.
func sortedByName(entries []Entry) []Entry {
	out := slices.Clone(entries)
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

// escapeHref makes a child name safe as a relative link: it is
// percent-encoded and prefixed with "./" so names containing a colon are
// not read as a URL scheme.
func escapeHref(name string) string {
	return "./" + (&url.URL{Path: name}).EscapedPath()
}
