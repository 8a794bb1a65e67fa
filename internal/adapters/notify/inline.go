package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/galeria/internal/domain"
)

// Inline handles each event on its own goroutine inside the process.
type Inline struct {
	N  *Notifier
	wg sync.WaitGroup
}

func NewInline(n *Notifier) *Inline { return &Inline{N: n} }

func (d *Inline) Dispatch(ctx context.Context, ev domain.DocumentCreated) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.N.Handle(context.WithoutCancel(ctx), ev); err != nil {
			log.Warn().Err(err).Str("collection", ev.Collection).Str("id", ev.ID).Msg("notify")
		}
	}()
	return nil
}

// Wait blocks until every dispatched event has been handled.
func (d *Inline) Wait() { d.wg.Wait() }
