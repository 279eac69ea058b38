package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
)

func TestDispatcherKeepsPerUserOrder(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[chat.UserID][]string)

	d := NewDispatcher(8, func(_ context.Context, msg chat.Message) {
		// uneven work so that ordering bugs would show up
		if len(msg.Text)%2 == 0 {
			time.Sleep(time.Millisecond)
		}
		mu.Lock()
		seen[msg.From.ID] = append(seen[msg.From.ID], msg.Text)
		mu.Unlock()
	})

	users := []chat.UserID{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		for _, u := range users {
			d.Submit(context.Background(), chat.Message{From: chat.User{ID: u}, Text: fmt.Sprintf("%d", i)})
		}
	}
	d.Wait()

	for _, u := range users {
		got := seen[u]
		if len(got) != 20 {
			t.Fatalf("user %s: got %d messages", u, len(got))
		}
		for i, text := range got {
			if text != fmt.Sprintf("%d", i) {
				t.Fatalf("user %s: message %d = %s", u, i, text)
			}
		}
	}
}

func TestDispatcherRunsUsersConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan chat.UserID, 2)

	d := NewDispatcher(2, func(_ context.Context, msg chat.Message) {
		started <- msg.From.ID
		<-release
	})

	d.Submit(context.Background(), chat.Message{From: chat.User{ID: "slow"}})
	d.Submit(context.Background(), chat.Message{From: chat.User{ID: "fast"}})

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("a blocked user held up another user")
		}
	}
	close(release)
	d.Wait()
}

func TestDispatcherBoundsWorkers(t *testing.T) {
	var running, peak int32

	d := NewDispatcher(2, func(_ context.Context, _ chat.Message) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	for i := 0; i < 10; i++ {
		d.Submit(context.Background(), chat.Message{From: chat.User{ID: chat.UserID(fmt.Sprintf("u%d", i))}})
	}
	d.Wait()

	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestDispatcherStopsOnClosedChannel(t *testing.T) {
	var handled int32
	d := NewDispatcher(1, func(_ context.Context, _ chat.Message) {
		atomic.AddInt32(&handled, 1)
	})

	in := make(chan chat.Message, 3)
	for i := 0; i < 3; i++ {
		in <- chat.Message{From: chat.User{ID: "u"}}
	}
	close(in)

	d.Start(context.Background(), in)
	d.Wait()
	d.Stop()

	if got := atomic.LoadInt32(&handled); got != 3 {
		t.Fatalf("handled = %d, want 3", got)
	}
}

func TestDispatcherStopsOnCancel(t *testing.T) {
	d := NewDispatcher(1, func(context.Context, chat.Message) {})
	ctx, cancel := context.WithCancel(context.Background())

	d.Start(ctx, make(chan chat.Message))
	cancel()

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
