package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu                       sync.Mutex
	connected, left, dropped int
}

func (o *countingObserver) ClientConnected()    { o.mu.Lock(); o.connected++; o.mu.Unlock() }
func (o *countingObserver) ClientDisconnected() { o.mu.Lock(); o.left++; o.mu.Unlock() }
func (o *countingObserver) MessageDropped()     { o.mu.Lock(); o.dropped++; o.mu.Unlock() }

func drain(s *Subscription) []Message {
	var out []Message
	for {
		select {
		case m := <-s.Messages():
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestEncodeFramesEnvelope(t *testing.T) {
	m, err := Encode("order_updated", map[string]string{"orderId": "ORD1", "status": "paid"})
	require.NoError(t, err)

	assert.Equal(t, "order_updated", m.Event)
	assert.JSONEq(t, `{"orderId":"ORD1","status":"paid"}`, string(m.Data))
	assert.JSONEq(t, `{"event":"order_updated","data":{"orderId":"ORD1","status":"paid"}}`, string(m.Frame))
}

func TestSubscribeDeliversInitialThenLive(t *testing.T) {
	h := NewHub(4, nil)
	seed1, _ := Encode("current_orders", []string{})
	seed2, _ := Encode("analytics_update", map[string]int{"totalOrders": 0})

	s := h.Subscribe(seed1, seed2)
	defer s.Close()
	h.Publish("new_order", map[string]string{"id": "ORD1"})

	got := drain(s)
	require.Len(t, got, 3)
	assert.Equal(t, "current_orders", got[0].Event)
	assert.Equal(t, "analytics_update", got[1].Event)
	assert.Equal(t, "new_order", got[2].Event)
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	h := NewHub(4, nil)
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Close()
	defer b.Close()

	h.Publish("order_updated", map[string]string{"orderId": "ORD1"})

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSlowSubscriberMissesEvents(t *testing.T) {
	obs := &countingObserver{}
	h := NewHub(2, obs)
	slow := h.Subscribe()
	defer slow.Close()

	for i := 0; i < 5; i++ {
		h.Publish("new_order", i)
	}

	got := drain(slow)
	require.Len(t, got, 2)
	assert.Equal(t, "0", string(got[0].Data))
	assert.Equal(t, "1", string(got[1].Data))
	assert.Equal(t, 3, obs.dropped)
}

func TestCloseUnsubscribesOnce(t *testing.T) {
	obs := &countingObserver{}
	h := NewHub(2, obs)
	s := h.Subscribe()
	require.Equal(t, 1, h.Len())

	s.Close()
	s.Close()
	h.Publish("new_order", 1)

	assert.Equal(t, 0, h.Len())
	assert.Empty(t, drain(s))
	assert.Equal(t, 1, obs.connected)
	assert.Equal(t, 1, obs.left)
}
