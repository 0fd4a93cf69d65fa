package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/shandysiswandi/mailgate/internal/email/entity"
	"github.com/shandysiswandi/mailgate/internal/pkg/config"
	"github.com/shandysiswandi/mailgate/internal/pkg/goerror"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
)

// WebSocketDependency lists what NewWebSocket needs.
type WebSocketDependency struct {
	Config config.Config
	UID    uid.NumberID
	UC     uc
}

// WebSocket is the streaming adapter. Every accepted connection runs one read
// loop; connections share nothing but the email service handle. Stop closes
// the listener and every live connection so blocked reads unblock.
type WebSocket struct {
	server *http.Server
	uid    uid.NumberID
	uc     uc

	mu    sync.Mutex
	conns map[int64]*websocket.Conn
}

// NewWebSocket builds the streaming adapter with its own HTTP server whose
// only job is upgrading connections.
func NewWebSocket(dep WebSocketDependency) *WebSocket {
	ws := &WebSocket{
		uid:   dep.UID,
		uc:    dep.UC,
		conns: make(map[int64]*websocket.Conn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.upgrade)

	ws.server = &http.Server{
		Addr:              dep.Config.GetString("app.server.websocket.address"),
		Handler:           mux,
		ReadHeaderTimeout: dep.Config.GetSecond("app.server.websocket.read_header_timeout_seconds"),
	}

	return ws
}

func (ws *WebSocket) Name() string { return "websocket" }

func (ws *WebSocket) Start() error {
	if err := ws.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop shuts the listener down and closes all tracked connections.
func (ws *WebSocket) Stop(ctx context.Context) error {
	err := ws.server.Shutdown(ctx)

	ws.mu.Lock()
	for id, conn := range ws.conns {
		//nolint:errcheck // the connection is going away either way
		conn.Close()
		delete(ws.conns, id)
	}
	ws.mu.Unlock()

	return err
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (ws *WebSocket) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	id := ws.uid.Generate()
	ws.track(id, conn)
	defer ws.untrack(id)

	slog.InfoContext(r.Context(), "websocket connection opened", "conn_id", id, "remote", conn.RemoteAddr().String())
	ws.serveConn(r.Context(), id, conn)
	slog.InfoContext(r.Context(), "websocket connection closed", "conn_id", id)
}

// serveConn processes frames one at a time, so replies go out in the order
// requests arrived on this connection. Frames that do not parse as a request
// are dropped without a reply.
func (ws *WebSocket) serveConn(ctx context.Context, id int64, conn *websocket.Conn) {
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		var req SendEmailRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			slog.DebugContext(ctx, "dropping unparseable websocket frame", "conn_id", id, "error", err)
			continue
		}

		resp, err := ws.uc.SendEmail(ctx, entity.SendEmailInput{
			From:     req.From,
			To:       req.To,
			Subject:  req.Subject,
			Body:     req.Body,
			Metadata: req.Metadata,
		})
		if err != nil {
			slog.WarnContext(ctx, "websocket send email failed", "conn_id", id, "error", err)
			if err := ws.reply(conn, map[string]string{"error": errorMessage(err)}); err != nil {
				return
			}

			continue
		}

		if err := ws.reply(conn, SendEmailResponse{
			Status:    resp.Status,
			MessageID: resp.MessageID,
			Timestamp: resp.Timestamp,
		}); err != nil {
			return
		}
	}
}

func (ws *WebSocket) reply(conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return conn.WriteMessage(websocket.TextMessage, data)
}

func (ws *WebSocket) track(id int64, conn *websocket.Conn) {
	ws.mu.Lock()
	ws.conns[id] = conn
	ws.mu.Unlock()
}

func (ws *WebSocket) untrack(id int64) {
	ws.mu.Lock()
	if conn, ok := ws.conns[id]; ok {
		//nolint:errcheck // already closed when the read loop exits first
		conn.Close()
		delete(ws.conns, id)
	}
	ws.mu.Unlock()
}

// errorMessage extracts the caller-safe message from a service error.
func errorMessage(err error) string {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return gerr.Msg()
	}

	return "Internal server error"
}
