package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailgate/internal/email"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.email.enabled") {
		adapters, err := email.New(email.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Mail:       a.mail,
			Goroutine:  a.goroutine,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			OID:        a.oid,
			Clock:      a.clock,
			Validator:  a.validator,
		})
		if err != nil {
			slog.Error("failed to init module email", "error", err)
			os.Exit(1)
		}

		a.adapters = append(a.adapters, adapters...)
	}
}
