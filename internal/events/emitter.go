// Package events provides the user-info change notifier. It replaces an
// ad-hoc global listener list with an emitter instance whose subscriptions
// must be explicitly released, so hot-reload or multi-instance setups
// cannot leak handlers.
package events

import (
	"sync"

	"github.com/reetreev/dashboard/internal/domain"
)

type UserListener func(*domain.UserProfile)

type Emitter struct {
	mu        sync.Mutex
	next      int
	listeners map[int]UserListener
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[int]UserListener)}
}

// Subscribe registers a listener and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (e *Emitter) Subscribe(listener UserListener) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.listeners[id] = listener
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Emit delivers the current profile (nil on sign-out) to every listener.
func (e *Emitter) Emit(user *domain.UserProfile) {
	e.mu.Lock()
	snapshot := make([]UserListener, 0, len(e.listeners))
	for _, listener := range e.listeners {
		snapshot = append(snapshot, listener)
	}
	e.mu.Unlock()

	for _, listener := range snapshot {
		listener(user)
	}
}

func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
