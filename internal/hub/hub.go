package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/atikulmunna/clientlog/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	inputBuffer      = 1024
	subscriberBuffer = 256
)

// Hub fans accepted log entries out to every subscriber (websocket clients, the aggregator).
type Hub struct {
	input       chan model.LogEntry
	log         logrus.FieldLogger
	mu          sync.RWMutex
	subscribers map[chan model.LogEntry]struct{}
	dropped     atomic.Int64
}

// New creates a Hub. Call Start to begin broadcasting.
func New(log logrus.FieldLogger) *Hub {
	return &Hub{
		input:       make(chan model.LogEntry, inputBuffer),
		log:         log,
		subscribers: make(map[chan model.LogEntry]struct{}),
	}
}

// Publish queues an entry for broadcast. It never blocks the caller; if the
// queue is full the entry is dropped and counted.
func (h *Hub) Publish(entry model.LogEntry) {
	select {
	case h.input <- entry:
	default:
		h.drop()
	}
}

// Subscribe returns a buffered channel that will receive every published entry.
func (h *Hub) Subscribe() <-chan model.LogEntry {
	ch := make(chan model.LogEntry, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (h *Hub) Unsubscribe(sub <-chan model.LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Dropped returns the total number of entries dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Start broadcasts published entries until the context is cancelled,
// then closes all subscriber channels.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-h.input:
			h.broadcast(entry)
		}
	}
}

// broadcast sends an entry to all subscribers.
// If a subscriber's channel is full, the entry is dropped for that subscriber.
func (h *Hub) broadcast(entry model.LogEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- entry:
		default:
			h.drop()
		}
	}
}

func (h *Hub) drop() {
	n := h.dropped.Add(1)
	h.log.WithField("dropped_total", n).Warn("hub: dropped entry for slow consumer")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
