// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//
// Usage:
//
//	mux.Handle("GET /health/live", handler.Adapt(health.Liveness[*handler.RequestContext], handler.NewContext, nil))
//	mux.Handle("GET /health/ready", handler.Adapt(
//		health.Readiness[*handler.RequestContext](log, health.DirAvailable(root)),
//		handler.NewContext,
//		response.ErrorHandler[*handler.RequestContext],
//	))
//
// Dependency checks must follow func(context.Context) error signature.
package health
