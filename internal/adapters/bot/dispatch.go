package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"
)

// UpdateHandler processes one update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update)
}

// Dispatcher hands every update to its own goroutine, at most limit at a time,
// so a slow generation in one chat does not hold up the others.
type Dispatcher struct {
	h   UpdateHandler
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func NewDispatcher(h UpdateHandler, limit int) *Dispatcher {
	if limit <= 0 {
		limit = 1
	}
	return &Dispatcher{h: h, sem: semaphore.NewWeighted(int64(limit))}
}

// Dispatch waits for a free slot and starts the update. It reports false when ctx ends first.
func (d *Dispatcher) Dispatch(ctx context.Context, upd tgbotapi.Update) bool {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	d.wg.Add(1)
	go func() {
		defer func() {
			d.sem.Release(1)
			d.wg.Done()
		}()
		d.h.HandleUpdate(ctx, upd)
	}()
	return true
}

// Wait blocks until every dispatched update has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }
