package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/email/usecase"
	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/goerror"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
	"github.com/shandysiswandi/mailgate/internal/pkg/router"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
	"github.com/shandysiswandi/mailgate/internal/pkg/validator"
)

// fakeConfig satisfies config.Config for the handful of keys the router and
// adapters read in tests. Unstubbed methods panic via the embedded nil.
type fakeConfig struct {
	config.Config
	values map[string]string
}

func (f fakeConfig) GetString(key string) string    { return f.values[key] }
func (f fakeConfig) GetArray(string) []string       { return nil }
func (f fakeConfig) GetSecond(string) time.Duration { return 0 }
func (f fakeConfig) GetBool(string) bool            { return true }
func (f fakeConfig) Close() error                   { return nil }

type savedEmail struct {
	ToAddress string
	Subject   string
	Content   string
}

type fakeStore struct {
	saved   []savedEmail
	saveErr error
	records []entity.Record
}

func (f *fakeStore) SaveEmail(_ context.Context, toAddr, subject, content string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}

	f.saved = append(f.saved, savedEmail{ToAddress: toAddr, Subject: subject, Content: content})
	return "a4f2b6d8-0000-0000-0000-000000000001", nil
}

func (f *fakeStore) GetEmail(_ context.Context, id string) (*entity.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return &rec, nil
		}
	}

	return nil, goerror.ErrNotFound
}

func (f *fakeStore) ListEmails(context.Context) ([]entity.Record, error) {
	return f.records, nil
}

func newTestUsecase(t *testing.T) (*usecase.Usecase, *mail.Recorder) {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	rec := mail.NewRecorder()
	uc := usecase.NewEmail(usecase.Dependency{
		RepoMail:   rec,
		Clock:      clock.New(),
		Validator:  v10,
		Instrument: instrument.NewNoop(),
	})

	return uc, rec
}

func newTestServer(t *testing.T, uc uc, store store) *httptest.Server {
	t.Helper()

	r := router.NewRouter(router.Config{
		Config:     fakeConfig{},
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc, store)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url, contentType, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	return resp.StatusCode, data
}

func TestHealth(t *testing.T) {
	uc, _ := newTestUsecase(t)
	srv := newTestServer(t, uc, &fakeStore{})

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Server is running!" {
		t.Fatalf("got body %q", string(body))
	}
}

func TestSendEmailEndpoint(t *testing.T) {
	payload := `{"to":"user@example.com","subject":"hi","body":"hello"}`

	t.Run("success with json content type", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		store := &fakeStore{}
		srv := newTestServer(t, uc, store)

		status, body := postJSON(t, srv.URL+"/email", "application/json", payload)
		if status != http.StatusOK {
			t.Fatalf("got status %d, body %s", status, body)
		}

		var out SendEmailResponse
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.Status != "sent" {
			t.Fatalf("got status %q, want sent", out.Status)
		}
		if out.MessageID == "" {
			t.Fatalf("expected a message id")
		}

		if len(store.saved) != 1 {
			t.Fatalf("expected 1 audit row, got %d", len(store.saved))
		}
		if store.saved[0].ToAddress != "user@example.com" || store.saved[0].Content != "hello" {
			t.Fatalf("unexpected audit row: %+v", store.saved[0])
		}
	})

	t.Run("success with charset parameter", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, body := postJSON(t, srv.URL+"/email", "application/json; charset=utf-8", payload)
		if status != http.StatusOK {
			t.Fatalf("got status %d, body %s", status, body)
		}
	})

	t.Run("success without content type", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, body := postJSON(t, srv.URL+"/email", "", payload)
		if status != http.StatusOK {
			t.Fatalf("got status %d, body %s", status, body)
		}
	})

	t.Run("api prefix serves the same handler", func(t *testing.T) {
		uc, rec := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, _ := postJSON(t, srv.URL+"/api/email", "application/json", payload)
		if status != http.StatusOK {
			t.Fatalf("got status %d", status)
		}
		if got := len(rec.Sent()); got != 1 {
			t.Fatalf("expected 1 delivery, got %d", got)
		}
	})

	t.Run("unsupported media type", func(t *testing.T) {
		uc, rec := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, body := postJSON(t, srv.URL+"/email", "text/plain", payload)
		if status != http.StatusUnsupportedMediaType {
			t.Fatalf("got status %d, want 415", status)
		}

		var envelope map[string]any
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if envelope["error"] == "" {
			t.Fatalf("expected error message, got %v", envelope)
		}
		if got := len(rec.Sent()); got != 0 {
			t.Fatalf("rejected request must not deliver, got %d", got)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, _ := postJSON(t, srv.URL+"/email", "application/json", `{"to": "user@example.com"`)
		if status != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", status)
		}
	})

	t.Run("missing recipient", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})

		status, body := postJSON(t, srv.URL+"/email", "application/json", `{"subject":"hi"}`)
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("got status %d, want 422, body %s", status, body)
		}

		var envelope struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if _, ok := envelope.Fields["to"]; !ok {
			t.Fatalf("expected a field error for to, got %v", envelope.Fields)
		}
	})

	t.Run("delivery failure", func(t *testing.T) {
		uc, rec := newTestUsecase(t)
		srv := newTestServer(t, uc, &fakeStore{})
		rec.FailWith(errors.New("connection refused"))

		status, body := postJSON(t, srv.URL+"/email", "application/json", payload)
		if status != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", status)
		}

		var envelope map[string]string
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if !strings.Contains(envelope["error"], "Failed to send email") {
			t.Fatalf("unexpected error message: %q", envelope["error"])
		}
	})

	t.Run("audit failure still reports sent", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		store := &fakeStore{saveErr: errors.New("database unreachable")}
		srv := newTestServer(t, uc, store)

		status, body := postJSON(t, srv.URL+"/email", "application/json", payload)
		if status != http.StatusOK {
			t.Fatalf("got status %d, body %s", status, body)
		}

		var out SendEmailResponse
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.Status != "sent" {
			t.Fatalf("got status %q, want sent", out.Status)
		}
	})
}

func TestListEmailsEndpoint(t *testing.T) {
	uc, _ := newTestUsecase(t)
	now := time.Now().UTC()
	store := &fakeStore{records: []entity.Record{
		{ID: "id-2", ToAddress: "b@example.com", Subject: "second", Content: "later", SentAt: now},
		{ID: "id-1", ToAddress: "a@example.com", Subject: "first", Content: "earlier", SentAt: now.Add(-time.Hour)},
	}}
	srv := newTestServer(t, uc, store)

	resp, err := http.Get(srv.URL + "/api/emails")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.StatusCode)
	}

	var out []EmailRecordResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "id-2" || out[1].ID != "id-1" {
		t.Fatalf("list order not preserved: %v, %v", out[0].ID, out[1].ID)
	}
}

func TestGetEmailEndpoint(t *testing.T) {
	uc, _ := newTestUsecase(t)
	store := &fakeStore{records: []entity.Record{
		{ID: "id-1", ToAddress: "a@example.com", Subject: "first", Content: "body", SentAt: time.Now().UTC()},
	}}
	srv := newTestServer(t, uc, store)

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/emails/id-1")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.StatusCode)
		}

		var out EmailRecordResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.ToAddress != "a@example.com" {
			t.Fatalf("unexpected record: %+v", out)
		}
	})

	t.Run("missing", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/emails/nope")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", resp.StatusCode)
		}
	})
}

func TestHTTPStartStop(t *testing.T) {
	uc, _ := newTestUsecase(t)

	h := NewHTTP(HTTPDependency{
		Config:     fakeConfig{values: map[string]string{"app.server.http.address": "127.0.0.1:0"}},
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
		UC:         uc,
		Store:      &fakeStore{},
	})

	done := make(chan error, 1)
	go func() { done <- h.Start() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.Stop(ctx); err != nil {
		t.Fatalf("failed to stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start must return cleanly after stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("start did not return after stop")
	}
}

func TestUnknownRoute(t *testing.T) {
	uc, _ := newTestUsecase(t)
	srv := newTestServer(t, uc, &fakeStore{})

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", resp.StatusCode)
	}

	var envelope map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if envelope["error"] == "" {
		t.Fatalf("expected error message, got %v", envelope)
	}
}
