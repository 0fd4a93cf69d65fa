package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mailgate/internal/email/inbound"
	"github.com/shandysiswandi/mailgate/internal/email/outbound/db"
	"github.com/shandysiswandi/mailgate/internal/email/outbound/relay"
	"github.com/shandysiswandi/mailgate/internal/email/usecase"
	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
	"github.com/shandysiswandi/mailgate/internal/pkg/validator"
)

// Adapter is a protocol listener supervised by the application. Start blocks
// until the adapter stops serving; Stop drains it within the given context.
type Adapter interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New wires the email module and returns its protocol adapters. Schema setup
// runs in the background; a missing database delays audit writes but never
// blocks startup.
func New(dep Dependency) ([]Adapter, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	store := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := relay.New(dep.Mail, dep.Instrument)

	dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := store.EnsureSchema(ctx); err != nil {
			slog.WarnContext(ctx, "failed to ensure emails schema", "error", err)
		}

		return nil
	})

	uc := usecase.NewEmail(usecase.Dependency{
		RepoMail:   repoMail,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	return []Adapter{
		inbound.NewHTTP(inbound.HTTPDependency{
			Config:     dep.Config,
			UUID:       dep.UUID,
			Instrument: dep.Instrument,
			UC:         uc,
			Store:      store,
		}),
		inbound.NewWebSocket(inbound.WebSocketDependency{
			Config: dep.Config,
			UID:    dep.UID,
			UC:     uc,
		}),
		inbound.NewGRPC(inbound.GRPCDependency{
			Config: dep.Config,
			OID:    dep.OID,
			Clock:  dep.Clock,
			UC:     uc,
		}),
	}, nil
}
