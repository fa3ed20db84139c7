package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_WatchReceivesMatchingEvents(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Filter{Table: TableOrders, OrderID: 7})
	defer cancel()

	hub.Broadcast(Event{Table: TableOrders, Type: EventUpdate, OrderID: 7, Status: "preparing"})
	hub.Broadcast(Event{Table: TableOrders, Type: EventUpdate, OrderID: 8, Status: "ready"})
	hub.Broadcast(Event{Table: TableMenuItems, Type: EventUpdate, RowID: "wonton-soup"})

	e := <-ch
	assert.Equal(t, uint(7), e.OrderID)
	assert.Equal(t, "preparing", e.Status)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected event: %+v", extra)
	default:
	}
}

func TestHub_EmptyFilterIsFirehose(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Filter{})
	defer cancel()

	hub.Broadcast(Event{Table: TableOrders, OrderID: 1})
	hub.Broadcast(Event{Table: TableMenuItems, RowID: "fried-rice"})

	assert.Equal(t, uint(1), (<-ch).OrderID)
	assert.Equal(t, "fried-rice", (<-ch).RowID)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Filter{})

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Cancel twice and broadcast after cancel: both no-ops.
	cancel()
	hub.Broadcast(Event{Table: TableOrders, OrderID: 1})
}

func TestHub_SlowWatcherDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Filter{Table: TableOrders})
	defer cancel()

	for i := 0; i < watcherBuffer+5; i++ {
		hub.Broadcast(Event{Table: TableOrders, OrderID: uint(i + 1)})
	}

	// The buffer holds the first watcherBuffer events; the rest were
	// dropped without blocking Broadcast.
	for i := 0; i < watcherBuffer; i++ {
		e := <-ch
		assert.Equal(t, uint(i+1), e.OrderID)
	}
	select {
	case e := <-ch:
		t.Fatalf("expected overflow to be dropped, got %+v", e)
	default:
	}
}

type mockBroker struct {
	publishFunc func(ctx context.Context, routingKey string, body []byte) error
	keys        []string
	bodies      [][]byte
}

func (m *mockBroker) Publish(ctx context.Context, routingKey string, body []byte) error {
	m.keys = append(m.keys, routingKey)
	m.bodies = append(m.bodies, body)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, routingKey, body)
	}
	return nil
}

func TestPublisher_RoutingKeyAndPayload(t *testing.T) {
	broker := &mockBroker{}
	p := NewPublisher(broker, zap.NewNop())

	err := p.PublishEvent(context.Background(), Event{
		Table:   TableOrders,
		Type:    EventInsert,
		RowID:   "42",
		OrderID: 42,
		Status:  "pending",
	})
	require.NoError(t, err)

	require.Len(t, broker.keys, 1)
	assert.Equal(t, "orders.42", broker.keys[0])

	var got Event
	require.NoError(t, json.Unmarshal(broker.bodies[0], &got))
	assert.Equal(t, EventInsert, got.Type)
	assert.Equal(t, uint(42), got.OrderID)
	assert.False(t, got.At.IsZero(), "publish stamps At when unset")
}

func TestPublisher_BrokerErrorSurfaces(t *testing.T) {
	broker := &mockBroker{publishFunc: func(context.Context, string, []byte) error {
		return errors.New("channel closed")
	}}
	p := NewPublisher(broker, zap.NewNop())

	err := p.PublishEvent(context.Background(), Event{Table: TableOrders, RowID: "1"})
	assert.Error(t, err)
}

func TestFilter_Matches(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		event  Event
		want   bool
	}{
		{"zero filter matches all", Filter{}, Event{Table: TableOrders, OrderID: 3}, true},
		{"table match", Filter{Table: TableOrders}, Event{Table: TableOrders}, true},
		{"table mismatch", Filter{Table: TableMenuItems}, Event{Table: TableOrders}, false},
		{"order match", Filter{OrderID: 3}, Event{Table: TableOrders, OrderID: 3}, true},
		{"order mismatch", Filter{OrderID: 3}, Event{Table: TableOrders, OrderID: 4}, false},
		{"both must match", Filter{Table: TableOrders, OrderID: 3}, Event{Table: TableMenuItems, OrderID: 3}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.matches(tc.event))
		})
	}
}
