package inbound

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/cors"
	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/router"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
)

type uc interface {
	SendEmail(ctx context.Context, in entity.SendEmailInput) (*entity.SendEmailOutput, error)
}

type store interface {
	SaveEmail(ctx context.Context, toAddr, subject, content string) (string, error)
	GetEmail(ctx context.Context, id string) (*entity.Record, error)
	ListEmails(ctx context.Context) ([]entity.Record, error)
}

// HTTPDependency lists what NewHTTP needs.
type HTTPDependency struct {
	Config     config.Config
	UUID       uid.StringID
	Instrument instrument.Instrumentation
	UC         uc
	Store      store
}

// HTTP is the REST adapter. It owns its http.Server and is supervised by the
// application; Start blocks until the server stops.
type HTTP struct {
	server *http.Server
}

// NewHTTP builds the REST adapter on the shared router stack.
func NewHTTP(dep HTTPDependency) *HTTP {
	r := router.NewRouter(router.Config{
		Config:     dep.Config,
		UUID:       dep.UUID,
		Instrument: dep.Instrument,
	})

	RegisterHTTPEndpoint(r, dep.UC, dep.Store)

	handler := cors.New(cors.Options{
		AllowedOrigins: dep.Config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)

	return &HTTP{
		server: &http.Server{
			Addr:              dep.Config.GetString("app.server.http.address"),
			Handler:           handler,
			ReadTimeout:       dep.Config.GetSecond("app.server.http.read_timeout_seconds"),
			ReadHeaderTimeout: dep.Config.GetSecond("app.server.http.read_header_timeout_seconds"),
			WriteTimeout:      dep.Config.GetSecond("app.server.http.write_timeout_seconds"),
			IdleTimeout:       dep.Config.GetSecond("app.server.http.idle_timeout_seconds"),
		},
	}
}

func (h *HTTP) Name() string { return "http" }

// Start serves until Stop is called. A shutdown-initiated close is a clean
// exit, not an error.
func (h *HTTP) Start() error {
	if err := h.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests until ctx expires.
func (h *HTTP) Stop(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterHTTPEndpoint mounts the REST routes onto r.
func RegisterHTTPEndpoint(r *router.Router, uc uc, store store) {
	end := &HTTPEndpoint{uc: uc, store: store}

	r.GETRaw("/", http.HandlerFunc(end.Health))

	// Two paths, one handler. The bare form predates the /api prefix and
	// existing callers still use it.
	r.POST("/email", end.SendEmail)
	r.POST("/api/email", end.SendEmail)

	r.GET("/api/emails", end.ListEmails)
	r.GET("/api/emails/:id", end.GetEmail)
}
