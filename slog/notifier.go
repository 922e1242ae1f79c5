package slog

import (
	"context"
	"log/slog"

	"github.com/mfialko/folio"
)

// Ensure Notifier implements folio.Notifier.
var _ folio.Notifier = (*Notifier)(nil)

// Notifier displays notifications by logging them. It stands in for a
// system notification surface on deployments that have none.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Show logs the notification.
func (n *Notifier) Show(ctx context.Context, title, body string) error {
	n.logger.Info("notification", "title", title, "body", body)
	return nil
}

// Open logs the window-open request.
func (n *Notifier) Open(ctx context.Context, url string) error {
	n.logger.Info("open window", "url", url)
	return nil
}
