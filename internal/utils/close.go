package utils

import (
	"context"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Closer is a named resource released at shutdown.
type Closer struct {
	Name  string
	Close func(ctx context.Context) error
}

// CloseAll releases closers in reverse order and logs the outcome of each.
// Failures do not stop the remaining closers; the first error is returned.
func CloseAll(ctx context.Context, log logger.Logger, closers ...Closer) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if c.Close == nil {
			continue
		}
		if err := c.Close(ctx); err != nil {
			log.Warn("failed to close", logger.String("resource", c.Name), logger.Error(err))
			if first == nil {
				first = err
			}
			continue
		}
		log.Info("✅ " + c.Name + " closed cleanly")
	}
	return first
}
