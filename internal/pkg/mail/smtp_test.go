package mail

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"testing"
)

func TestNewSMTP(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		if _, err := NewSMTP(SMTPConfig{Port: 25}); !errors.Is(err, ErrSMTPHostPortRequired) {
			t.Fatalf("expected ErrSMTPHostPortRequired, got %v", err)
		}
	})

	t.Run("missing port", func(t *testing.T) {
		if _, err := NewSMTP(SMTPConfig{Host: "smtp.example.com"}); !errors.Is(err, ErrSMTPHostPortRequired) {
			t.Fatalf("expected ErrSMTPHostPortRequired, got %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.addr != "smtp.example.com:587" {
			t.Fatalf("unexpected addr: %q", s.addr)
		}
	})
}

func TestSMTPSendValidation(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("no recipients", func(t *testing.T) {
		_, err := s.Send(context.Background(), Message{From: "a@example.com"})
		if !errors.Is(err, ErrSMTPNoRecipients) {
			t.Fatalf("expected ErrSMTPNoRecipients, got %v", err)
		}
	})

	t.Run("no sender", func(t *testing.T) {
		_, err := s.Send(context.Background(), Message{To: []string{"b@example.com"}})
		if !errors.Is(err, ErrSMTPNoSender) {
			t.Fatalf("expected ErrSMTPNoSender, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Send(ctx, Message{From: "a@example.com", To: []string{"b@example.com"}})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestClassifySMTPError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "net op error",
			in:   &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			want: ErrConnection,
		},
		{
			name: "auth 535",
			in:   &textproto.Error{Code: 535, Msg: "authentication credentials invalid"},
			want: ErrAuthentication,
		},
		{
			name: "auth 530",
			in:   &textproto.Error{Code: 530, Msg: "authentication required"},
			want: ErrAuthentication,
		},
		{
			name: "plain error",
			in:   errors.New("short response"),
			want: ErrConnection,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifySMTPError(tc.in)
			if !errors.Is(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("rejection carries code", func(t *testing.T) {
		got := classifySMTPError(&textproto.Error{Code: 550, Msg: "mailbox unavailable"})

		var reject *RejectError
		if !errors.As(got, &reject) {
			t.Fatalf("expected RejectError, got %v", got)
		}
		if reject.Code != 550 {
			t.Fatalf("got code %d, want 550", reject.Code)
		}
		if reject.Reason != "mailbox unavailable" {
			t.Fatalf("got reason %q", reject.Reason)
		}
	})
}

func TestBuildBody(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		body, contentType := buildBody(Message{TextBody: "hello"})
		if body != "hello" {
			t.Fatalf("unexpected body: %q", body)
		}
		if contentType != "text/plain; charset=UTF-8" {
			t.Fatalf("unexpected content type: %q", contentType)
		}
	})

	t.Run("html only", func(t *testing.T) {
		_, contentType := buildBody(Message{HTMLBody: "<b>hi</b>"})
		if contentType != "text/html; charset=UTF-8" {
			t.Fatalf("unexpected content type: %q", contentType)
		}
	})

	t.Run("multipart", func(t *testing.T) {
		body, contentType := buildBody(Message{TextBody: "hello", HTMLBody: "<b>hi</b>"})
		if !strings.HasPrefix(contentType, "multipart/alternative; boundary=") {
			t.Fatalf("unexpected content type: %q", contentType)
		}
		if !strings.Contains(body, "hello") || !strings.Contains(body, "<b>hi</b>") {
			t.Fatalf("body missing parts: %q", body)
		}
	})
}
