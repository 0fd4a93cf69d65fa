package relay

import (
	"context"

	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Mail adapts the mail delivery capability for the email usecase, adding a
// span per attempt.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) (*mail.Receipt, error) {
	ctx, span := m.ins.Tracer("email.outbound.relay").Start(ctx, "Send")
	defer span.End()

	receipt, err := m.client.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return receipt, nil
}
