package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/goerror"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
)

type fakeConfig struct {
	config.Config
}

func (fakeConfig) GetString(string) string        { return "" }
func (fakeConfig) GetArray(string) []string       { return nil }
func (fakeConfig) GetSecond(string) time.Duration { return 0 }
func (fakeConfig) Close() error                   { return nil }

func newTestRouter() *Router {
	return NewRouter(Config{
		Config:     fakeConfig{},
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
}

func TestRouterSuccessPayload(t *testing.T) {
	r := newTestRouter()
	r.GET("/thing", func(*Request) (any, error) {
		return map[string]string{"name": "thing"}, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/thing")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if out["name"] != "thing" {
		t.Fatalf("payload must be written verbatim, got %v", out)
	}
}

func TestRouterNilPayload(t *testing.T) {
	r := newTestRouter()
	r.POST("/fire", func(*Request) (any, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/fire", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", resp.StatusCode)
	}
}

func TestRouterErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid format", err: goerror.NewInvalidFormat(), wantStatus: http.StatusBadRequest},
		{name: "unsupported media", err: goerror.NewUnsupportedMedia("bad media"), wantStatus: http.StatusUnsupportedMediaType},
		{name: "not found", err: goerror.NewBusiness("missing", goerror.CodeNotFound), wantStatus: http.StatusNotFound},
		{name: "server", err: goerror.NewServer(io.ErrUnexpectedEOF), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter()
			r.GET("/fail", func(*Request) (any, error) {
				return nil, tc.err
			})

			srv := httptest.NewServer(r)
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/fail")
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("got status %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			var envelope map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if envelope["error"] == "" {
				t.Fatalf("expected error message, got %v", envelope)
			}
		})
	}
}

func TestRouterPanicRecovery(t *testing.T) {
	r := newTestRouter()
	r.GET("/boom", func(*Request) (any, error) {
		panic("kaboom")
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/boom")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", resp.StatusCode)
	}

	var envelope map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if envelope["error"] != "Internal server error" {
		t.Fatalf("unexpected envelope: %v", envelope)
	}
}

func TestRouterNotFound(t *testing.T) {
	r := newTestRouter()

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", resp.StatusCode)
	}
}

func TestRequestDecodeBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		var dst struct {
			Name string `json:"name"`
		}
		if err := (&Request{Request: req}).DecodeBody(&dst); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.Name != "x" {
			t.Fatalf("got %q, want x", dst.Name)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":"x"}`))
		var dst struct {
			Name string `json:"name"`
		}
		if err := (&Request{Request: req}).DecodeBody(&dst); err == nil {
			t.Fatalf("expected an error for unknown fields")
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"} trailing`))
		var dst struct {
			Name string `json:"name"`
		}
		if err := (&Request{Request: req}).DecodeBody(&dst); err == nil {
			t.Fatalf("expected an error for trailing data")
		}
	})
}
