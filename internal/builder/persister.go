package builder

import (
	"context"
	"log"
	"sync"
	"time"

	"vitae-cli/internal/store"
)

// Backend is where snapshots and journal entries end up. store.Store implements it.
type Backend interface {
	SaveSQLite(ctx context.Context, db *store.DB) error
	AppendEventContext(ctx context.Context, typ, entityID string, payload any) error
}

type pendingEvent struct {
	typ      string
	entityID string
	payload  map[string]any
}

// persister coalesces bursts of mutations into one background save. A save that starts
// while another is running waits for it and then picks up the newest state.
type persister struct {
	backend  Backend
	debounce time.Duration
	// snapshot copies the state and drains queued events; called without p.mu held.
	snapshot func() (*store.DB, []pendingEvent)
	requeue  func([]pendingEvent)
	failed   func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	done    chan struct{}
	lastErr error
	closed  bool
}

func (p *persister) notify() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = true
	if p.timer == nil {
		p.timer = time.AfterFunc(p.debounce, p.onTimer)
		return
	}
	p.timer.Reset(p.debounce)
}

func (p *persister) onTimer() {
	p.mu.Lock()
	if p.running {
		// The in-flight run reschedules itself when it sees pending.
		p.mu.Unlock()
		return
	}
	if !p.pending {
		p.mu.Unlock()
		return
	}
	p.startLocked()
	p.mu.Unlock()

	p.run()
}

func (p *persister) startLocked() {
	p.pending = false
	p.running = true
	p.done = make(chan struct{})
}

func (p *persister) run() {
	db, events := p.snapshot()
	ctx := context.Background()
	err := p.backend.SaveSQLite(ctx, db)
	if err == nil {
		for i, ev := range events {
			if err = p.backend.AppendEventContext(ctx, ev.typ, ev.entityID, ev.payload); err != nil {
				events = events[i:]
				break
			}
		}
	}
	if err != nil {
		log.Printf("builder: save failed: %v", err)
		p.requeue(events)
	}

	p.mu.Lock()
	p.lastErr = err
	p.running = false
	close(p.done)
	if p.pending && !p.closed && p.timer != nil {
		p.timer.Reset(p.debounce)
	}
	p.mu.Unlock()

	if err != nil && p.failed != nil {
		p.failed(err)
	}
}

// flush saves pending state now and waits for any in-flight save. It returns the error of the
// last save that ran.
func (p *persister) flush(ctx context.Context) error {
	for {
		p.mu.Lock()
		switch {
		case p.running:
			done := p.done
			p.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		case p.pending:
			if p.timer != nil {
				p.timer.Stop()
			}
			p.startLocked()
			p.mu.Unlock()
			p.run()
		default:
			err := p.lastErr
			p.mu.Unlock()
			return err
		}
	}
}

func (p *persister) close(ctx context.Context) error {
	err := p.flush(ctx)
	p.mu.Lock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
	return err
}
