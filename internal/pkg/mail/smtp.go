package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPNoRecipients is returned when To/Cc/Bcc are all empty.
	ErrSMTPNoRecipients = errors.New("no recipients provided")
	// ErrSMTPNoSender is returned when both Message.From and the configured default From are empty.
	ErrSMTPNoSender = errors.New("no sender provided")

	// ErrConnection indicates the relay could not be reached.
	ErrConnection = errors.New("smtp connection failed")
	// ErrAuthentication indicates the relay rejected the configured credentials.
	ErrAuthentication = errors.New("smtp authentication failed")
)

// RejectError is returned when the relay refuses a message, carrying the SMTP
// response code it answered with.
type RejectError struct {
	Code   int
	Reason string
}

// Error implements the error interface.
func (e *RejectError) Error() string {
	return fmt.Sprintf("smtp rejected message with code %d: %s", e.Code, e.Reason)
}

// SMTP is a Mail implementation backed by net/smtp.
//
// Each Send dials the relay, delivers one message, and closes the connection.
type SMTP struct {
	addr        string
	host        string
	defaultFrom string
	auth        smtp.Auth
	uuid        uid.StringID
	clock       clock.Clocker
}

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username.
	Username string
	// Password is the SMTP authentication password.
	Password string
	// From is the default sender when Message.From is empty.
	From string
	// UUID generates message identifiers; defaults to uid.NewUUID.
	UUID uid.StringID
	// Clock stamps receipts; defaults to clock.New.
	Clock clock.Clocker
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if cfg.UUID == nil {
		cfg.UUID = uid.NewUUID()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	return &SMTP{
		addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:        cfg.Host,
		defaultFrom: cfg.From,
		auth:        auth,
		uuid:        cfg.UUID,
		clock:       cfg.Clock,
	}, nil
}

// Send delivers a message over SMTP and returns the generated receipt.
//
// The receipt's MessageID matches the Message-ID header stamped on the wire, so
// the relayed email and the caller-facing identifier agree.
func (s *SMTP) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Cc...)
	recipients = append(recipients, msg.Bcc...)

	if len(recipients) == 0 {
		return nil, ErrSMTPNoRecipients
	}

	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}
	if from == "" {
		return nil, ErrSMTPNoSender
	}

	messageID := s.uuid.Generate()
	body, contentType := buildBody(msg)

	var headers []string
	headers = append(headers, fmt.Sprintf("From: %s", from))
	headers = append(headers, fmt.Sprintf("To: %s", strings.Join(msg.To, ", ")))
	if len(msg.Cc) > 0 {
		headers = append(headers, fmt.Sprintf("Cc: %s", strings.Join(msg.Cc, ", ")))
	}
	headers = append(headers, fmt.Sprintf("Subject: %s", msg.Subject))
	headers = append(headers, fmt.Sprintf("Message-ID: <%s@%s>", messageID, s.host))
	headers = append(headers, "MIME-Version: 1.0")
	headers = append(headers, fmt.Sprintf("Content-Type: %s", contentType))

	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := smtp.SendMail(s.addr, s.auth, from, recipients, []byte(raw)); err != nil {
		return nil, classifySMTPError(err)
	}

	return &Receipt{MessageID: messageID, SentAt: s.clock.Now()}, nil
}

// Close implements io.Closer for interface compatibility.
func (s *SMTP) Close() error {
	return nil
}

// classifySMTPError maps raw net/smtp failures onto the package's typed errors:
// network failures become ErrConnection, 530/535-class responses become
// ErrAuthentication, and remaining protocol responses become a RejectError
// carrying the relay's code.
func classifySMTPError(err error) error {
	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535, 538:
			return fmt.Errorf("%w: %w", ErrAuthentication, err)
		default:
			return &RejectError{Code: protoErr.Code, Reason: protoErr.Msg}
		}
	}

	return fmt.Errorf("%w: %w", ErrConnection, err)
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := multipartBoundary()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), fmt.Sprintf("multipart/alternative; boundary=%s", boundary)
	}

	if msg.HTMLBody != "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}

	return msg.TextBody, "text/plain; charset=UTF-8"
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "mailgate-boundary-fallback"
	}
	return "mailgate-boundary-" + hex.EncodeToString(b[:])
}
