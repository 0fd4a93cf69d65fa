package inbound

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/instrument"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCDependency lists what NewGRPC needs.
type GRPCDependency struct {
	Config config.Config
	OID    uid.StringID
	Clock  clock.Clocker
	UC     uc
}

// GRPC is the RPC adapter. It serves the email service over a hand-written
// service descriptor with the JSON codec, so no generated stubs are involved.
type GRPC struct {
	server *grpc.Server
	addr   string
}

// NewGRPC builds the RPC adapter.
func NewGRPC(dep GRPCDependency) *GRPC {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(correlationUnaryInterceptor(dep.OID, dep.Clock)),
	)

	server.RegisterService(&emailServiceDesc, &grpcEndpoint{uc: dep.UC})

	return &GRPC{
		server: server,
		addr:   dep.Config.GetString("app.server.grpc.address"),
	}
}

func (g *GRPC) Name() string { return "grpc" }

func (g *GRPC) Start() error {
	lis, err := net.Listen("tcp", g.addr)
	if err != nil {
		return err
	}

	return g.server.Serve(lis)
}

// Stop drains gracefully, falling back to a hard stop when ctx expires.
func (g *GRPC) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		g.server.Stop()
	}

	return nil
}

// Serve runs the RPC server on the provided listener for tests.
func (g *GRPC) Serve(lis net.Listener) error {
	return g.server.Serve(lis)
}

// correlationUnaryInterceptor tags each call with a correlation ID and logs
// its outcome, mirroring what the HTTP middleware chain does for requests.
func correlationUnaryInterceptor(oid uid.StringID, clk clock.Clocker) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = instrument.SetCorrelationID(ctx, oid.Generate())

		start := clk.Now()
		resp, err := handler(ctx, req)
		elapsed := clk.Now().Sub(start)

		if err != nil {
			slog.WarnContext(ctx, "rpc call failed", "method", info.FullMethod, "duration_ms", elapsed.Milliseconds(), "error", err)
			return nil, err
		}

		slog.InfoContext(ctx, "rpc call served", "method", info.FullMethod, "duration_ms", elapsed.Milliseconds())

		return resp, nil
	}
}

type grpcEndpoint struct {
	uc uc
}

// SendEmail delivers one email for an RPC caller. Any service failure maps to
// an internal-error status carrying the caller-safe message; nothing is
// persisted on this path.
func (e *grpcEndpoint) SendEmail(ctx context.Context, in *RPCEmailRequest) (*RPCEmailResponse, error) {
	resp, err := e.uc.SendEmail(ctx, entity.SendEmailInput{
		To:       in.To,
		Subject:  in.Subject,
		Body:     in.Content,
		Metadata: in.Metadata,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, errorMessage(err))
	}

	return &RPCEmailResponse{
		MessageID: resp.MessageID,
		Status:    resp.Status,
		Timestamp: resp.Timestamp.Format(time.RFC3339),
	}, nil
}
