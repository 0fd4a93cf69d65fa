package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mailgate/internal/email"
	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/mail"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
	"github.com/shandysiswandi/mailgate/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID

	// resources
	dbConn *pgxpool.Pool
	mail   mail.Mail

	// protocol listeners
	adapters []email.Adapter

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initMail()
	app.initModules()
	app.initClosers()

	return app
}
