package marketdata

import (
	"sync"

	"stocksim/internal/types"
)

const (
	EventQuote         = "quote"
	EventOrderExecuted = "order_executed"
	EventAlert         = "alert"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type QuoteEvent struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

type OrderExecutedEvent struct {
	OrderID  string            `json:"order_id"`
	Symbol   string            `json:"symbol"`
	Action   types.OrderAction `json:"action"`
	Type     types.OrderType   `json:"order_type"`
	Quantity int64             `json:"quantity"`
	Price    float64           `json:"price"`
}

type AlertEvent struct {
	Symbol string  `json:"symbol"`
	Target float64 `json:"target"`
	Price  float64 `json:"price"`
}

// Bus fans market events out to subscribers. Publish never blocks: slow
// subscribers drop events once their buffer fills.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 100)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.RUnlock()
}
