// Package recdblog provides the structured logger threaded through a
// recdb.Handle. It wraps zap the way iamNilotpal/ignite's internal/storage
// threads a *zap.SugaredLogger through its Config: a production logger by
// default, with a Nop logger available for tests and embedders who don't
// want recdb's diagnostics on stderr.
package recdblog

import (
	"go.uber.org/zap"
)

// New builds a production JSON logger suitable for a long-lived embedded
// store: timestamped, leveled, safe to call concurrently from multiple
// goroutines (not multiple processes — recdb.Handle is not shared across
// processes, only the underlying files are).
func New() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails if the default config can't build
		// its sink, which doesn't happen with the default stderr sink.
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

// Nop returns a logger that discards everything, for tests and for
// embedders who construct their own *zap.SugaredLogger and don't want
// recdb's default.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
