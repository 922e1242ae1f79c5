package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfialko/folio"
)

// Ensure LoggingStorage implements folio.CacheStorage.
var _ folio.CacheStorage = (*LoggingStorage)(nil)

// LoggingStorage wraps a CacheStorage with debug logging for the
// generation lifecycle.
type LoggingStorage struct {
	next   folio.CacheStorage
	logger *slog.Logger
}

// NewLoggingStorage creates a new LoggingStorage.
func NewLoggingStorage(next folio.CacheStorage, logger *slog.Logger) *LoggingStorage {
	return &LoggingStorage{next: next, logger: logger}
}

// Open delegates to the wrapped storage and logs the operation.
func (s *LoggingStorage) Open(ctx context.Context, name string) (cache folio.Cache, err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache open",
			"cache", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Open(ctx, name)
}

// Delete delegates to the wrapped storage and logs the operation.
func (s *LoggingStorage) Delete(ctx context.Context, name string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache delete",
			"cache", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Delete(ctx, name)
}

// Names delegates to the wrapped storage.
func (s *LoggingStorage) Names(ctx context.Context) ([]string, error) {
	return s.next.Names(ctx)
}
