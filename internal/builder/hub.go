package builder

import "sync"

// Change describes one applied mutation, or a failed save when Err is set.
type Change struct {
	Type       string `json:"type"`
	DocumentID string `json:"documentId,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
	Err        error  `json:"-"`
}

// hub fans changes out to subscribers. Slow subscribers miss changes rather than block writers.
type hub struct {
	mu   sync.Mutex
	subs map[chan Change]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan Change]struct{}{}}
}

func (h *hub) subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) broadcast(c Change) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
	h.mu.Unlock()
}
