// Package event is an in-process publish/subscribe bus.
//
// Services fire, infrastructure listens:
//
//	bus := event.NewBus()
//	bus.Listen(event.SalePosted, func(payload interface{}) {
//	    sale := payload.(*models.Sale)
//	    hub.Broadcast(sale.ShopID, encode(sale))
//	})
//
//	bus.Fire(event.SalePosted, sale)      // handlers run in order, inline
//	bus.FireAsync(event.UserLoggedIn, u)  // each handler on its own goroutine
package event

import (
	"sync"
)

// Names of events fired by shopdesk services.
const (
	SalePosted    = "sale.posted"
	SaleCancelled = "sale.cancelled"
	UserLoggedIn  = "user.logged_in"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Bus dispatches named events to registered handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Fire runs every listener in registration order before returning. A nil
// Bus drops the event.
func (b *Bus) Fire(event string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}

// FireAsync runs every listener on its own goroutine.
func (b *Bus) FireAsync(event string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.snapshot(event) {
		go h(payload)
	}
}
