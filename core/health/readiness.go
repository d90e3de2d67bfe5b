package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/autoindex/core/handler"
	"github.com/dmitrymomot/autoindex/core/logger"
	"github.com/dmitrymomot/autoindex/core/response"
)

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
func Readiness[C handler.Context](log *slog.Logger, fn ...func(context.Context) error) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, f := range fn {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "Readiness check failed", logger.Component("health"), logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}

		return response.String("READY")
	}
}

// DirAvailable reports an error unless dir exists and can be listed.
// Served roots on network mounts can disappear after startup.
func DirAvailable(dir string) func(context.Context) error {
	return func(context.Context) error {
		f, err := os.Open(dir)
		if err != nil {
			return fmt.Errorf("health: open %s: %w", dir, err)
		}
		defer f.Close()

		if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("health: read %s: %w", dir, err)
		}
		return nil
	}
}
