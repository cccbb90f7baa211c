package bot

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type blockingHandler struct {
	release chan struct{}
	started chan int
	running int32
	peak    int32
	handled int32
}

func (b *blockingHandler) HandleUpdate(_ context.Context, upd tgbotapi.Update) {
	n := atomic.AddInt32(&b.running, 1)
	for {
		p := atomic.LoadInt32(&b.peak)
		if n <= p || atomic.CompareAndSwapInt32(&b.peak, p, n) {
			break
		}
	}
	b.started <- upd.UpdateID
	<-b.release
	atomic.AddInt32(&b.running, -1)
	atomic.AddInt32(&b.handled, 1)
}

func TestDispatcherRunsUpdatesConcurrently(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{}), started: make(chan int, 4)}
	d := NewDispatcher(h, 2)

	d.Dispatch(context.Background(), tgbotapi.Update{UpdateID: 1})
	d.Dispatch(context.Background(), tgbotapi.Update{UpdateID: 2})
	for i := 0; i < 2; i++ {
		select {
		case <-h.started:
		case <-time.After(time.Second):
			t.Fatal("second update did not start while the first was in flight")
		}
	}

	close(h.release)
	d.Wait()
	if got := atomic.LoadInt32(&h.handled); got != 2 {
		t.Fatalf("expected 2 handled updates, got %d", got)
	}
}

func TestDispatcherBoundsInFlightUpdates(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{}), started: make(chan int, 8)}
	d := NewDispatcher(h, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 5; i++ {
			d.Dispatch(context.Background(), tgbotapi.Update{UpdateID: i})
		}
	}()
	<-h.started
	<-h.started
	select {
	case id := <-h.started:
		t.Fatalf("update %d started beyond the limit", id)
	case <-time.After(50 * time.Millisecond):
	}

	close(h.release)
	wg.Wait()
	d.Wait()
	if got := atomic.LoadInt32(&h.peak); got != 2 {
		t.Fatalf("expected peak concurrency 2, got %d", got)
	}
	if got := atomic.LoadInt32(&h.handled); got != 5 {
		t.Fatalf("expected 5 handled updates, got %d", got)
	}
}

func TestDispatcherStopsWhenContextEnds(t *testing.T) {
	h := &blockingHandler{release: make(chan struct{}), started: make(chan int, 2)}
	d := NewDispatcher(h, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if !d.Dispatch(ctx, tgbotapi.Update{UpdateID: 1}) {
		t.Fatal("first update should be accepted")
	}
	cancel()
	if d.Dispatch(ctx, tgbotapi.Update{UpdateID: 2}) {
		t.Fatal("update accepted after the context ended")
	}

	close(h.release)
	d.Wait()
}
