package mq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-system/internal/common/logger"
)

const publishTimeout = 5 * time.Second

// Sender is the part of Client the relay needs.
type Sender interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// FailureCounter is notified of every event that did not reach the broker.
type FailureCounter interface {
	RelayFailed()
}

type outbound struct {
	event string
	body  []byte
}

// Relay forwards broadcast events to a fanout exchange from its own
// goroutine. Publish never blocks; events are dropped when the buffer is full.
type Relay struct {
	sender   Sender
	exchange string
	source   string
	log      *logger.Logger
	failures FailureCounter

	queue     chan outbound
	closeOnce sync.Once
	closed    chan struct{}
}

func NewRelay(sender Sender, exchange, source string, buffer int, log *logger.Logger, failures FailureCounter) *Relay {
	if buffer <= 0 {
		buffer = 1
	}
	return &Relay{
		sender:   sender,
		exchange: exchange,
		source:   source,
		log:      log,
		failures: failures,
		queue:    make(chan outbound, buffer),
		closed:   make(chan struct{}),
	}
}

// Publish enqueues event for delivery to the exchange.
func (r *Relay) Publish(event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		r.log.Error("relay_encode_failed", err, map[string]any{"event": event})
		r.fail()
		return
	}
	select {
	case <-r.closed:
		return
	default:
	}
	select {
	case r.queue <- outbound{event: event, body: body}:
	default:
		r.log.Warn("relay_buffer_full", map[string]any{"event": event})
		r.fail()
	}
}

// Run drains the buffer until ctx is canceled, then flushes what is queued.
func (r *Relay) Run(ctx context.Context) error {
	defer r.closeOnce.Do(func() { close(r.closed) })
	for {
		select {
		case m := <-r.queue:
			r.send(ctx, m)
		case <-ctx.Done():
			r.closeOnce.Do(func() { close(r.closed) })
			r.flush()
			return nil
		}
	}
}

func (r *Relay) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	for {
		select {
		case m := <-r.queue:
			r.send(ctx, m)
		default:
			return
		}
	}
}

func (r *Relay) send(ctx context.Context, m outbound) {
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := persistentJSON(m.body, m.event, uuid.NewString())
	msg.Headers = amqp.Table{"x-source": r.source}
	if err := r.sender.Publish(pctx, r.exchange, "", msg); err != nil {
		r.log.Error("relay_publish_failed", err, map[string]any{"event": m.event, "message_id": msg.MessageId})
		r.fail()
		return
	}
	r.log.Debug("relay_published", map[string]any{"event": m.event, "message_id": msg.MessageId})
}

func (r *Relay) fail() {
	if r.failures != nil {
		r.failures.RelayFailed()
	}
}
