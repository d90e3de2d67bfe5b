// Package handler provides types for HTTP request processing with type-safe
// context handling and middleware support.
//
// # Core Types
//
//	// Response function renders HTTP responses
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Type-safe handler with custom context
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Error handling function
//	type ErrorHandler[C Context] func(ctx C, err error)
//
//	// Middleware function for handler composition
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// # Mounting on net/http
//
// Handlers are plain functions; Adapt turns one into an http.Handler given a
// context factory and an error handler:
//
//	h := handler.Chain(
//		static.Dir[*handler.RequestContext]("./public", static.WithAutoindex(true)),
//		middleware.RequestID[*handler.RequestContext](),
//	)
//
//	mux := http.NewServeMux()
//	mux.Handle("/", handler.Adapt(h, handler.NewContext, response.ErrorHandler[*handler.RequestContext]))
//
// # Testing Handlers
//
// The separation between building a Response and rendering it makes handlers
// easy to test:
//
//	req := httptest.NewRequest(http.MethodGet, "/docs/", nil)
//	w := httptest.NewRecorder()
//
//	resp := h(handler.NewContext(w, req))
//	err := resp(w, req)
package handler
