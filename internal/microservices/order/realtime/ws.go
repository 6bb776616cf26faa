package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandTimeout = 10 * time.Second
)

// Session is what a push connection needs from the order service.
type Session interface {
	Subscribe() *Subscription
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type WSHandler struct {
	sess     Session
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from allowedOrigins; "*" allows any origin.
func NewWSHandler(sess Session, log *logger.Logger, allowedOrigins []string) *WSHandler {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WSHandler{
		sess: sess,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.log.Warn("ws_upgrade_failed", map[string]any{"error": err.Error()})
		return
	}
	sub := h.sess.Subscribe()
	c := &client{
		conn:   conn,
		sub:    sub,
		direct: make(chan Message, 8),
		done:   make(chan struct{}),
		log:    h.log.With(map[string]any{"client_id": sub.ID()}),
	}
	c.log.Info("client_connected", map[string]any{"remote": r.RemoteAddr})

	go c.writePump()
	c.readPump(h.sess)
}

type client struct {
	conn   *websocket.Conn
	sub    *Subscription
	direct chan Message // replies meant for this client only
	done   chan struct{}
	log    *logger.Logger
}

func (c *client) readPump(sess Session) {
	defer func() {
		c.sub.Close()
		close(c.done)
		_ = c.conn.Close()
		c.log.Info("client_disconnected", nil)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws_read_failed", map[string]any{"error": err.Error()})
			}
			return
		}
		c.handle(sess, raw)
	}
}

func (c *client) handle(sess Session, raw []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.reply("malformed message")
		return
	}
	switch env.Event {
	case domain.EventUpdateOrderStatus:
		var req domain.UpdateStatusRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.reply("malformed update_order_status payload")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := sess.UpdateStatus(ctx, req.OrderID, req.Status); err != nil {
			c.log.Error("ws_update_status_failed", err, map[string]any{"order_id": req.OrderID, "status": req.Status})
			c.reply(httpx.PublicMessage(err, "Failed to update order"))
		}
	default:
		c.log.Debug("ws_unknown_event", map[string]any{"event": env.Event})
	}
}

func (c *client) reply(msg string) {
	m, err := Encode(domain.EventError, map[string]string{"message": msg})
	if err != nil {
		return
	}
	select {
	case c.direct <- m:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		var m Message
		select {
		case <-c.done:
			return
		case m = <-c.sub.Messages():
		case m = <-c.direct:
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, m.Frame); err != nil {
			c.log.Warn("ws_write_failed", map[string]any{"event": m.Event, "error": err.Error()})
			return
		}
	}
}
