// Package bus is a minimal in-process messenger: named request/response
// actions plus publish/subscribe events. Delivery is synchronous and
// in registration order, so an event observed by one subscriber has
// been observed by all earlier ones.
package bus

import (
	"context"
	"fmt"
	"sync"
)

type ActionFunc func(ctx context.Context, payload any) (any, error)

type EventFunc func(payload any)

type Bus struct {
	mu      sync.RWMutex
	actions map[string]ActionFunc
	subs    map[string][]EventFunc
}

func New() *Bus {
	return &Bus{
		actions: make(map[string]ActionFunc),
		subs:    make(map[string][]EventFunc),
	}
}

// RegisterAction binds a handler to an action name. Re-registering a
// name is a programming error.
func (b *Bus) RegisterAction(name string, fn ActionFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.actions[name]; ok {
		return fmt.Errorf("action %q already registered", name)
	}
	b.actions[name] = fn
	return nil
}

// Call invokes the handler registered under name.
func (b *Bus) Call(ctx context.Context, name string, payload any) (any, error) {
	b.mu.RLock()
	fn, ok := b.actions[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for action %q", name)
	}
	return fn(ctx, payload)
}

// Subscribe adds fn to the subscriber list for the event.
func (b *Bus) Subscribe(event string, fn EventFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], fn)
}

// Publish delivers payload to every subscriber of the event,
// synchronously, in subscription order. Payloads are full snapshots;
// consumers must treat a later publish as superseding an earlier one.
func (b *Bus) Publish(event string, payload any) {
	b.mu.RLock()
	subs := make([]EventFunc, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(payload)
	}
}
