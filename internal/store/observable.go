package store

import "sync"

// observable is a mutex plus a set of change listeners. Embedding types
// guard their own fields with mu and call Notify after each change,
// outside the lock.
type observable struct {
	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

// Subscribe registers fn to run after every state change. The returned
// func removes it.
func (o *observable) Subscribe(fn func()) (unsubscribe func()) {
	o.mu.Lock()
	if o.listeners == nil {
		o.listeners = make(map[int]func())
	}
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// Notify runs every listener.
func (o *observable) Notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.listeners))
	for _, fn := range o.listeners {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// joinSubscriptions merges several unsubscribe funcs into one.
func joinSubscriptions(unsubs ...func()) func() {
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
