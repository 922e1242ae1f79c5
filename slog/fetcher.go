// Package slog provides logging decorators for the domain interfaces
// and a log-backed notification sink.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfialko/folio"
)

// Ensure LoggingFetcher implements folio.Fetcher.
var _ folio.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   folio.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next folio.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, req *folio.Request) (resp *folio.Response, err error) {
	defer func(begin time.Time) {
		status := 0
		if resp != nil {
			status = resp.Status
		}
		f.logger.Info("fetch",
			"method", req.Method,
			"url", req.URL,
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
