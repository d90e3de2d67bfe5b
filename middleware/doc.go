// Package middleware provides request ID and request logging middleware for
// handler.HandlerFunc chains.
//
// All middleware functions follow a consistent pattern:
//   - Generic functions that accept a handler.Context type parameter
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//
// # Request ID
//
//	h := handler.Chain(files,
//		middleware.RequestID[*handler.RequestContext](),
//		middleware.LoggingWithLogger[*handler.RequestContext](log),
//	)
//
// The ID is written to the X-Request-ID response header and stored in the
// context. GetRequestID reads it back; RequestIDExtractor adds it to log
// records written with a *Context logging call.
//
// # Logging
//
// Logging writes one record per completed request. LoggingConfig.OnComplete
// receives the method, status and duration, which is how the server feeds
// request metrics.
package middleware
