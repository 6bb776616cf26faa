package realtime

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"restaurant-system/internal/common/logger"
)

const heartbeatInterval = 15 * time.Second

// SSEHandler streams the same events as the WebSocket endpoint, one
// `event:`/`data:` frame per message. It is read-only.
type SSEHandler struct {
	sess Session
	log  *logger.Logger
}

func NewSSEHandler(sess Session, log *logger.Logger) *SSEHandler {
	return &SSEHandler{sess: sess, log: log}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sub := h.sess.Subscribe()
	defer sub.Close()

	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, "retry: 2000\n\n"); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-sub.Messages():
			if err := writeEvent(w, m); err != nil {
				h.log.Debug("sse_write_failed", map[string]any{"error": err.Error()})
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, m Message) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Event, m.Data)
	return err
}
