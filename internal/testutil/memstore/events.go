package memstore

import (
	"context"
	"sync"

	"bootcamp-directory/internal/domain/events"
)

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *Publisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *Publisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
