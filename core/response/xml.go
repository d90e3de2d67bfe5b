package response

import (
	"encoding/xml"
	"net/http"

	"github.com/dmitrymomot/autoindex/core/handler"
)

// XML creates an application/xml response with 200 OK status.
// The document is marshaled before any header is written, so an encoding
// failure is returned without emitting a partial body.
func XML(v any) handler.Response {
	return XMLWithStatus(v, http.StatusOK)
}

// XMLWithStatus creates an application/xml response with custom status code.
// Output starts with the standard XML header.
func XMLWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		body, err := xml.Marshal(v)
		if err != nil {
			return err
		}
		doc := make([]byte, 0, len(xml.Header)+len(body))
		doc = append(doc, xml.Header...)
		doc = append(doc, body...)
		return BytesWithStatus(doc, "application/xml; charset=utf-8", status)(w, r)
	}
}
