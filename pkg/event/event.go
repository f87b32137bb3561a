// Package event provides the typed publish/subscribe primitive shared by the
// controllers and in-memory state containers.
package event

import (
	"sync"

	"tableflip.dev/worklog/pkg/logging"
)

// Emitter fans a value of type T out to its subscribers. The zero value is
// ready to use and logs listener failures to logging.Stderr.
type Emitter[T any] struct {
	// Name identifies the emitter in diagnostics.
	Name string
	// Logger receives listener failures. Nil means logging.Stderr.
	Logger logging.Logger

	mu        sync.RWMutex
	next      int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (e *Emitter[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	e.next++
	id := e.next
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Emitter[T]) remove(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener in subscription order. A listener that panics is
// logged and skipped; the remaining listeners still run and Emit returns
// normally.
func (e *Emitter[T]) Emit(v T) {
	e.mu.RLock()
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.RUnlock()

	for _, l := range snapshot {
		e.call(l, v)
	}
}

func (e *Emitter[T]) call(l listener[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			name := e.Name
			if name == "" {
				name = "event"
			}
			logging.OrDefault(e.Logger).Printf("%s: listener %d failed: %v", name, l.id, r)
		}
	}()
	l.fn(v)
}

// Len reports the number of subscribers.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
