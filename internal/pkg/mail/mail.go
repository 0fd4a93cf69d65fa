package mail

import (
	"context"
	"io"
	"time"
)

// Message represents an email payload.
//
// Fields are intentionally provider-agnostic so they can be sent using SMTP or
// other delivery mechanisms.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Receipt is the provider's acknowledgment for one delivery attempt.
type Receipt struct {
	// MessageID identifies the delivered message. It is opaque to callers and
	// only as unique as the backing provider guarantees.
	MessageID string
	// SentAt is the delivery completion instant.
	SentAt time.Time
}

// Mail abstracts an email provider (SMTP, third-party API, etc).
//
// Implementations must be safe for concurrent use; one instance is shared by
// every inbound adapter without external locking.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider and
	// returns the provider's receipt. One call is exactly one delivery
	// attempt; providers never retry on their own.
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
