package service

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/common/logger"
)

type ackRecorder struct {
	acked, nacked, requeued int
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	if requeue {
		a.requeued++
	}
	return nil
}
func (a *ackRecorder) Reject(uint64, bool) error { return nil }

type chanConsumer struct{ ch chan amqp.Delivery }

func (c chanConsumer) Consume(string, string, int) (<-chan amqp.Delivery, error) { return c.ch, nil }

func TestHandleAcksKnownEvents(t *testing.T) {
	ns := NewNotificatorService(nil, "notifications_queue", logger.NewNop())
	acks := &ackRecorder{}

	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "order_updated", Body: []byte(`{"orderId":"ORD1","status":"paid"}`)})
	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "new_order", Body: []byte(`{"id":"ORD2","tableNumber":3,"status":"new"}`)})
	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "current_orders", Body: []byte(`[]`)})
	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "analytics_update", Body: []byte(`{"totalOrders":2}`)})

	assert.Equal(t, 4, acks.acked)
	assert.Zero(t, acks.nacked)
}

func TestHandleDropsMalformed(t *testing.T) {
	ns := NewNotificatorService(nil, "q", logger.NewNop())
	acks := &ackRecorder{}

	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "order_updated", Body: []byte(`{"orderId":`)})
	ns.Handle(amqp.Delivery{Acknowledger: acks, Type: "something", Body: []byte(`nope`)})

	assert.Zero(t, acks.acked)
	assert.Equal(t, 2, acks.nacked)
	assert.Zero(t, acks.requeued)
}

func TestDescribe(t *testing.T) {
	f, err := describe("order_updated", []byte(`{"orderId":"ORD9","status":"ready"}`))
	require.NoError(t, err)
	assert.Equal(t, "ORD9", f["order_id"])

	f, err = describe("current_orders", []byte(`[{"id":"A"},{"id":"B"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, f["active_orders"])
}

func TestNotifyStopsOnCancel(t *testing.T) {
	ch := make(chan amqp.Delivery, 1)
	acks := &ackRecorder{}
	ch <- amqp.Delivery{Acknowledger: acks, Type: "order_updated", Body: []byte(`{"orderId":"ORD1","status":"ready"}`)}
	ns := NewNotificatorService(chanConsumer{ch: ch}, "q", logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ns.Notify(ctx) }()

	require.Eventually(t, func() bool { return len(ch) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Notify did not return")
	}
}

func TestNotifyReportsClosedChannel(t *testing.T) {
	ch := make(chan amqp.Delivery)
	close(ch)
	ns := NewNotificatorService(chanConsumer{ch: ch}, "q", logger.NewNop())

	assert.Error(t, ns.Notify(context.Background()))
}
