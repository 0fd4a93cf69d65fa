package usecase

import (
	"context"

	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
	"github.com/shandysiswandi/mailgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) (*mail.Receipt, error)
}

// Usecase is the transport-agnostic email service. It holds no mutable state
// beyond its injected dependencies and is shared by every inbound adapter.
type Usecase struct {
	repoMail  repoMail
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

// Dependency lists what NewEmail needs.
type Dependency struct {
	RepoMail   repoMail
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

// NewEmail constructs the email service.
func NewEmail(dep Dependency) *Usecase {
	return &Usecase{
		repoMail:  dep.RepoMail,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("email.usecase").Start(ctx, name)
}
