package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "delivery", err: NewDelivery(errors.New("relay down")), want: http.StatusInternalServerError},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "unsupported media", err: NewUnsupportedMedia("nope"), want: http.StatusUnsupportedMediaType},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("duplicate", CodeConflict), want: http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tc.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tc.err)
			}
			if got := gerr.StatusCode(); got != tc.want {
				t.Fatalf("got status %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNewDelivery(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewDelivery(cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Msg() != "Failed to send email: dial tcp: connection refused" {
		t.Fatalf("unexpected message: %q", gerr.Msg())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("delivery error must wrap its cause")
	}
}

func TestNewInvalidInputWithFields(t *testing.T) {
	err := NewInvalidInput(nil, "to", "to is a required field")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Fields()["to"] != "to is a required field" {
		t.Fatalf("unexpected fields: %v", gerr.Fields())
	}
	if gerr.Code() != CodeInvalidInput {
		t.Fatalf("got code %v, want CodeInvalidInput", gerr.Code())
	}
}
