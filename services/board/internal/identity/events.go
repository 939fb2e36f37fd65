package identity

import (
	"sync"

	"github.com/KrishPatel1605/AI-magine-Board-Web/services/board/internal/model"
)

// EventType names an auth state change
type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event is delivered to subscribers on every auth state change
type Event struct {
	Type        EventType
	AccessToken string
	User        model.User
}

type hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func newHub() *hub {
	return &hub{subs: make(map[int]func(Event))}
}

func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// publish calls subscribers synchronously, outside the lock
func (h *hub) publish(e Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
