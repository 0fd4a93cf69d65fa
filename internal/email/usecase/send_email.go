package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/pkg/goerror"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
)

// StatusSent is the Status value of a successful delivery.
const StatusSent = "sent"

type sendEmailValidation struct {
	To string `validate:"required"`
}

// SendEmail validates the request, performs exactly one delivery attempt, and
// returns the outcome. Failures surface immediately; there is no retry or
// queueing, so every returned output corresponds to one delivery attempt.
func (s *Usecase) SendEmail(ctx context.Context, in entity.SendEmailInput) (_ *entity.SendEmailOutput, err error) {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	if err := s.validator.Validate(sendEmailValidation{To: in.To}); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	receipt, err := s.repoMail.Send(ctx, mail.Message{
		From:     in.From,
		To:       []string{in.To},
		Subject:  in.Subject,
		TextBody: in.Body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send email", "to", in.To, "metadata", in.Metadata, "error", err)
		return nil, goerror.NewDelivery(err)
	}

	slog.InfoContext(ctx, "email sent", "to", in.To, "message_id", receipt.MessageID, "metadata", in.Metadata)

	return &entity.SendEmailOutput{
		Status:    StatusSent,
		MessageID: receipt.MessageID,
		Timestamp: receipt.SentAt.UTC(),
	}, nil
}
