package folio

import "context"

// Notification defaults used when a push payload omits fields.
const (
	DefaultNotificationTitle = "Folio"
	DefaultNotificationBody  = "New content is available."
)

// PushPayload is the JSON body of a push message. Both fields are
// optional; absent fields fall back to the defaults above.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier displays system notifications and opens application
// windows. It never touches the cache.
type Notifier interface {
	// Show displays a notification.
	Show(ctx context.Context, title, body string) error

	// Open focuses or opens an application window at the given URL.
	Open(ctx context.Context, url string) error
}
