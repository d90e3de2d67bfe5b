// Package response provides handler.Response constructors for the common
// payload types: plain text, raw bytes, JSON, XML, templ components and
// redirects, plus structured HTTP errors and default error handlers.
//
// Every constructor returns a handler.Response, so handlers stay plain
// functions that decide what to send while rendering is deferred:
//
//	func listing(ctx handler.Context) handler.Response {
//		if !allowed(ctx) {
//			return response.Error(response.ErrForbidden)
//		}
//		return response.XML(list)
//	}
//
// Errors returned from a response reach the configured error handler.
// ErrorHandler writes the status text; JSONErrorHandler writes an HTTPError
// document and strips details from 5xx errors.
package response
