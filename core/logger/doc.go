// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("autoindex"))
//
//	// Production: JSON format, info level
//	log := logger.New(
//		logger.WithProduction("autoindex"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("Server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// # Context-Aware Logging
//
// Attributes can be pulled from the context on every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("autoindex"),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "Processing request")
//
// # Attribute Helpers
//
// The helpers return an empty slog.Attr for nil or empty input, which slog
// drops, so callers never need nil checks:
//
//	log.Error("resolve failed",
//		logger.Component("static"),
//		logger.Path(p),
//		logger.Error(err),
//	)
package logger
