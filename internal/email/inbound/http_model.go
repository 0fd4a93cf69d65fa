package inbound

import "time"

// SendEmailRequest is the JSON body shared by the REST endpoint and the
// WebSocket text frames.
type SendEmailRequest struct {
	From     string            `json:"from,omitempty"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type SendEmailResponse struct {
	Status    string    `json:"status"`
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
}

type EmailRecordResponse struct {
	ID        string    `json:"id"`
	ToAddress string    `json:"to_address"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}
