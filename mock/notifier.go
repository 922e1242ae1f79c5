package mock

import (
	"context"

	"github.com/mfialko/folio"
)

var _ folio.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of folio.Notifier.
type Notifier struct {
	ShowFn func(ctx context.Context, title, body string) error
	OpenFn func(ctx context.Context, url string) error
}

func (n *Notifier) Show(ctx context.Context, title, body string) error {
	return n.ShowFn(ctx, title, body)
}

func (n *Notifier) Open(ctx context.Context, url string) error {
	return n.OpenFn(ctx, url)
}
