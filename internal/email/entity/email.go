package entity

import "time"

// SendEmailInput is the canonical, protocol-agnostic request every inbound
// adapter normalizes to. It is built once per inbound call and never mutated.
//
// To and Body carry the fields the wire formats disagree on: the JSON surface
// names the body "body" while the RPC surface names it "content"; both land
// here as Body.
type SendEmailInput struct {
	// From is the optional explicit sender; the delivery backend falls back
	// to its configured sender when empty.
	From string
	// To is the required recipient address.
	To string
	// Subject is the subject line; may be empty.
	Subject string
	// Body is the message content; may be empty.
	Body string
	// Metadata carries caller correlation values. It is logged, never
	// interpreted.
	Metadata map[string]string
}

// SendEmailOutput is the canonical delivery outcome returned to every adapter.
type SendEmailOutput struct {
	// Status is the delivery outcome, "sent" on success.
	Status string
	// MessageID is the delivery capability's opaque identifier for the
	// attempt.
	MessageID string
	// Timestamp is the delivery completion instant (UTC).
	Timestamp time.Time
}

// Record is the persisted audit entry for a delivered email. Rows are written
// once and never updated or deleted by this service.
type Record struct {
	ID        string
	ToAddress string
	Subject   string
	Content   string
	SentAt    time.Time
}
