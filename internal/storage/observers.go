package storage

import "sync"

// Observers is a goroutine-safe callback list shared by Notifier implementations.
type Observers struct {
	mu  sync.Mutex
	fns []func()
}

func (o *Observers) Add(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.fns = append(o.fns, fn)
	o.mu.Unlock()
}

// Fire calls every registered callback outside the lock.
func (o *Observers) Fire() {
	o.mu.Lock()
	fns := make([]func(), len(o.fns))
	copy(fns, o.fns)
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (o *Observers) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fns)
}
