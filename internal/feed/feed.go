package feed

import (
	"sync"
	"time"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
)

const (
	TableOrders    = "orders"
	TableMenuItems = "menu_items"
)

// Event is a row-level change notification. It carries enough to decide
// whether to care and which row to re-fetch; the payload is a hint, not
// the source of truth.
type Event struct {
	Table   string    `json:"table"`
	Type    EventType `json:"eventType"`
	RowID   string    `json:"rowId"`
	OrderID uint      `json:"orderId,omitempty"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

// Filter narrows a watch. Zero values match everything, so Filter{} is a
// firehose subscription.
type Filter struct {
	Table   string
	OrderID uint
}

func (f Filter) matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.OrderID != 0 && f.OrderID != e.OrderID {
		return false
	}
	return true
}

// watcherBuffer bounds each subscriber channel. A watcher that falls this
// far behind loses events; the re-fetch contract makes that recoverable.
const watcherBuffer = 16

type watcher struct {
	filter Filter
	ch     chan Event
}

// Hub fans committed change events out to in-process watchers. Events for
// the same order are delivered in publish order because Broadcast is
// called from a single consumer goroutine.
type Hub struct {
	mu       sync.Mutex
	watchers map[uint64]*watcher
	nextID   uint64
}

func NewHub() *Hub {
	return &Hub{watchers: make(map[uint64]*watcher)}
}

// Watch returns a channel of events matching the filter and a cancel
// function that releases the subscription.
func (h *Hub) Watch(f Filter) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	w := &watcher{filter: f, ch: make(chan Event, watcherBuffer)}
	h.watchers[id] = w

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.watchers[id]; ok {
			delete(h.watchers, id)
			close(w.ch)
		}
	}
	return w.ch, cancel
}

// Broadcast delivers an event to every matching watcher. Full buffers are
// skipped rather than blocked on.
func (h *Hub) Broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, w := range h.watchers {
		if !w.filter.matches(e) {
			continue
		}
		select {
		case w.ch <- e:
		default:
		}
	}
}
