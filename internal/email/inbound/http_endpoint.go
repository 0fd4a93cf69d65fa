package inbound

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/pkg/goerror"
	"github.com/shandysiswandi/mailgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for email delivery and the audit log.
type HTTPEndpoint struct {
	uc    uc
	store store
}

// Health reports process liveness as plain text.
func (h *HTTPEndpoint) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // nothing to do about a failed liveness write
	w.Write([]byte("Server is running!"))
}

// SendEmail delivers one email and, on success, records it best effort.
//
// A missing Content-Type is accepted; a present one must be application/json.
// Audit failures never turn a delivered email into an error response.
func (h *HTTPEndpoint) SendEmail(r *router.Request) (any, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		media, _, err := mime.ParseMediaType(ct)
		if err != nil || media != "application/json" {
			return nil, goerror.NewUnsupportedMedia("Content-Type must be application/json")
		}
	}

	var req SendEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendEmail(r.Context(), entity.SendEmailInput{
		From:     req.From,
		To:       req.To,
		Subject:  req.Subject,
		Body:     req.Body,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if _, err := h.store.SaveEmail(r.Context(), req.To, req.Subject, req.Body); err != nil {
		slog.WarnContext(r.Context(), "failed to record sent email", "to", req.To, "error", err)
	}

	return SendEmailResponse{
		Status:    resp.Status,
		MessageID: resp.MessageID,
		Timestamp: resp.Timestamp,
	}, nil
}

// ListEmails returns the audit log, newest first.
func (h *HTTPEndpoint) ListEmails(r *router.Request) (any, error) {
	recs, err := h.store.ListEmails(r.Context())
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return lo.Map(recs, func(rec entity.Record, _ int) EmailRecordResponse {
		return EmailRecordResponse{
			ID:        rec.ID,
			ToAddress: rec.ToAddress,
			Subject:   rec.Subject,
			Content:   rec.Content,
			SentAt:    rec.SentAt,
		}
	}), nil
}

// GetEmail returns one audit entry by id.
func (h *HTTPEndpoint) GetEmail(r *router.Request) (any, error) {
	rec, err := h.store.GetEmail(r.Context(), r.GetParam("id"))
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Email not found", goerror.CodeNotFound)
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return EmailRecordResponse{
		ID:        rec.ID,
		ToAddress: rec.ToAddress,
		Subject:   rec.Subject,
		Content:   rec.Content,
		SentAt:    rec.SentAt,
	}, nil
}
