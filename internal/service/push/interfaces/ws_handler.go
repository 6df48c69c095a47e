// internal/service/push/interfaces/ws_handler.go
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"zirako/internal/pkg/apperr"
	"zirako/internal/pkg/auth"
	"zirako/internal/pkg/httpx"
	"zirako/internal/pkg/logger"
	"zirako/internal/service/push/application"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
	sendBuffer     = 256
)

// SessionStore 维护 account -> 节点 的会话
type SessionStore interface {
	SetUserGateway(ctx context.Context, accountID int64, nodeID string) error
	RemoveUserGateway(ctx context.Context, accountID int64, nodeID string) error
}

// WSHandler 接受客户端的 websocket 连接
type WSHandler struct {
	hub       *application.Hub
	issuer    *auth.Issuer
	sessions  SessionStore
	nodeID    string
	pingEvery time.Duration
	upgrader  websocket.Upgrader
}

// NewWSHandler 创建处理器；pingEvery 同时决定会话 TTL 的刷新频率，应小于 TTL
func NewWSHandler(hub *application.Hub, issuer *auth.Issuer, sessions SessionStore, nodeID string, pingEvery time.Duration) *WSHandler {
	return &WSHandler{
		hub:       hub,
		issuer:    issuer,
		sessions:  sessions,
		nodeID:    nodeID,
		pingEvery: pingEvery,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws", h.serveWs)
}

func (h *WSHandler) serveWs(w http.ResponseWriter, r *http.Request) {
	claims, err := h.issuer.Parse(r.URL.Query().Get("token"))
	if err != nil {
		httpx.WriteError(r.Context(), w, apperr.Unauthorized("Token inválido"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := application.NewClient(claims.AccountID, sendBuffer)
	h.hub.Register(client)
	if err := h.sessions.SetUserGateway(context.Background(), client.AccountID, h.nodeID); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Int64("account_id", client.AccountID).Msg("failed to register session")
		h.hub.Unregister(client)
		_ = conn.Close()
		return
	}
	logger.Ctx(r.Context()).Info().Int64("account_id", client.AccountID).Str("node", h.nodeID).Msg("client connected")

	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

// writePump 把发送队列写入连接，并定时发送 ping、刷新会话 TTL
func (h *WSHandler) writePump(conn *websocket.Conn, c *application.Client) {
	ticker := time.NewTicker(h.pingEvery)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			if err := h.sessions.SetUserGateway(context.Background(), c.AccountID, h.nodeID); err != nil {
				logger.Ctx(context.Background()).Warn().Err(err).Int64("account_id", c.AccountID).Msg("failed to refresh session")
			}
		}
	}
}

// readPump 只处理 pong 与关闭；连接断开时注销会话
func (h *WSHandler) readPump(conn *websocket.Conn, c *application.Client) {
	pongWait := 2 * h.pingEvery
	defer func() {
		if h.hub.Unregister(c) {
			if err := h.sessions.RemoveUserGateway(context.Background(), c.AccountID, h.nodeID); err != nil {
				logger.Ctx(context.Background()).Warn().Err(err).Int64("account_id", c.AccountID).Msg("failed to remove session")
			}
			logger.Ctx(context.Background()).Info().Int64("account_id", c.AccountID).Msg("client disconnected")
		}
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
