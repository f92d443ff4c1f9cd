package notification

import "context"

// Sender delivers a single email. Implementations are best-effort; callers
// decide whether a failure is fatal.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
