package response

import (
	"net/http"

	"github.com/dmitrymomot/autoindex/core/handler"
)

// Redirect creates a 302 Found (temporary redirect) response.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectPermanent creates a 301 Moved Permanently response.
// Use this when a resource has a single canonical URL, e.g. directories
// that must end with a slash.
func RedirectPermanent(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectWithStatus creates a redirect with a custom status code.
// The status should be in the 3xx range; anything else falls back to 302.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
