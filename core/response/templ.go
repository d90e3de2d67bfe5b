package response

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/autoindex/core/handler"
)

// templComponent interface for templ components that can be rendered.
type templComponent interface {
	Render(ctx context.Context, w io.Writer) error
}

// Templ creates an HTML response using a templ component with 200 OK status.
func Templ(component templComponent) handler.Response {
	return TemplWithStatus(component, http.StatusOK)
}

// TemplWithStatus creates an HTML response using a templ component with custom status code.
// The component is rendered into a buffer first so a failing component never
// leaves a half-written page behind a 200 status.
func TemplWithStatus(component templComponent, status int) handler.Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := component.Render(r.Context(), &buf); err != nil {
			return fmt.Errorf("templ component render error: %w", err)
		}
		return BytesWithStatus(buf.Bytes(), "text/html; charset=utf-8", status)(w, r)
	}
}
