// Package notify delivers rendered alerts to messaging channels. Senders own
// channel-specific presentation (markup, buttons, previews); the Dispatcher
// owns the retry policy and the pacing floor between deliveries.
package notify

import (
	"context"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// Sender is the interface each delivery channel implements.
type Sender interface {
	// Send delivers one message. It reports throttling via
	// domain.ThrottledError and timeouts via domain.ErrDeliveryTimeout so the
	// dispatcher can apply the right retry behavior.
	Send(ctx context.Context, msg domain.Message) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}
