package bot

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
)

// Dispatcher runs one task per inbound message on a bounded pool.
//
// Messages are queued in a per-user mailbox drained by a single goroutine,
// so one user's messages are handled in arrival order while different users
// proceed concurrently. The goroutine exits once its mailbox is empty.
type Dispatcher struct {
	handle func(context.Context, chat.Message)
	sem    *semaphore.Weighted

	mu        sync.Mutex
	mailboxes map[chat.UserID][]chat.Message

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher running at most workers handlers at once
func NewDispatcher(workers int, handle func(context.Context, chat.Message)) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		handle:    handle,
		sem:       semaphore.NewWeighted(int64(workers)),
		mailboxes: make(map[chat.UserID][]chat.Message),
		stopChan:  make(chan struct{}),
	}
}

// Start consumes messages in the background until the channel closes, ctx
// is cancelled or Stop is called
func (d *Dispatcher) Start(ctx context.Context, in <-chan chat.Message) {
	slog.Info("Starting dispatcher")

	d.wg.Add(1)
	go d.run(ctx, in)
}

func (d *Dispatcher) run(ctx context.Context, in <-chan chat.Message) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Dispatcher stopped (context cancelled)")
			return
		case <-d.stopChan:
			slog.Info("Dispatcher stopped")
			return
		case msg, ok := <-in:
			if !ok {
				slog.Info("Dispatcher stopped (transport closed)")
				return
			}
			d.Submit(ctx, msg)
		}
	}
}

// Stop signals the dispatcher to stop and waits for queued messages to finish
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
	d.wg.Wait()
}

// Wait blocks until every submitted message has been handled
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Submit queues msg in its sender's mailbox
func (d *Dispatcher) Submit(ctx context.Context, msg chat.Message) {
	user := msg.From.ID

	d.mu.Lock()
	queue, running := d.mailboxes[user]
	d.mailboxes[user] = append(queue, msg)
	if !running {
		d.wg.Add(1)
	}
	d.mu.Unlock()

	if !running {
		go d.drain(ctx, user)
	}
}

func (d *Dispatcher) drain(ctx context.Context, user chat.UserID) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.mailboxes[user]
		if len(queue) == 0 {
			delete(d.mailboxes, user)
			d.mu.Unlock()
			return
		}
		msg := queue[0]
		d.mailboxes[user] = queue[1:]
		d.mu.Unlock()

		if err := d.sem.Acquire(ctx, 1); err != nil {
			slog.Warn("Dropping message", "user", user, "chat", msg.Chat, "error", err)
			continue
		}
		d.handle(ctx, msg)
		d.sem.Release(1)
	}
}
