// Package fence discards superseded requests. Each logical resource (for
// example one visitor's search box) gets a generation counter; starting a
// new request cancels the previous one and makes its result stale.
package fence

import (
	"context"
	"errors"
	"sync"
)

var ErrSuperseded = errors.New("request superseded by a newer one")

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Generations come from one counter per Fence, so a slot recreated after
// release never reuses a number held by a stale ticket.
type Fence struct {
	mu    sync.Mutex
	gen   uint64
	slots map[string]*slot
}

func New() *Fence {
	return &Fence{slots: map[string]*slot{}}
}

// Ticket identifies one request generation for a key.
type Ticket struct {
	f   *Fence
	key string
	gen uint64
}

// Begin starts a new generation for key and cancels the in-flight one, if
// any. The returned context is cancelled when a newer request begins or the
// ticket is released.
func (f *Fence) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	cctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[key]
	if !ok {
		s = &slot{}
		f.slots[key] = s
	} else if s.cancel != nil {
		s.cancel()
	}
	f.gen++
	s.gen = f.gen
	s.cancel = cancel
	return cctx, &Ticket{f: f, key: key, gen: s.gen}
}

// Current reports whether no newer request has begun for the key.
func (t *Ticket) Current() bool {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	s, ok := t.f.slots[t.key]
	return ok && s.gen == t.gen
}

// Release frees the ticket's context. A current ticket also clears its slot.
func (t *Ticket) Release() {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	s, ok := t.f.slots[t.key]
	if !ok || s.gen != t.gen {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	delete(t.f.slots, t.key)
}

// Len reports how many keys have a request in flight.
func (f *Fence) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.slots)
}

// Do runs fn under a new generation for key and drops its result if a newer
// call started meanwhile.
func Do[T any](ctx context.Context, f *Fence, key string, fn func(context.Context) (T, error)) (T, error) {
	cctx, t := f.Begin(ctx, key)
	defer t.Release()
	v, err := fn(cctx)
	if !t.Current() {
		var zero T
		return zero, ErrSuperseded
	}
	return v, err
}
