// Package burst merges text messages a user sends in quick succession into a
// single request.
package burst

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type Item struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

type Batch struct {
	ChatID   int64
	UserID   int64
	Username string
	Texts    []string
}

// Text joins the collected messages one per line.
func (b Batch) Text() string {
	return strings.Join(b.Texts, "\n")
}

type Options struct {
	Debounce time.Duration
	OnFlush  func(Batch)
}

type Aggregator struct {
	mu       sync.Mutex
	debounce time.Duration
	onFlush  func(Batch)
	pending  map[string]*pendingBatch
}

type pendingBatch struct {
	batch Batch
	timer *time.Timer
}

func New(opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}

	return &Aggregator{
		debounce: debounce,
		onFlush:  opts.OnFlush,
		pending:  make(map[string]*pendingBatch),
	}
}

// Add queues a message. Every new message from the same user in the same chat
// restarts the quiet period.
func (a *Aggregator) Add(item Item) {
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return
	}

	key := makeKey(item.ChatID, item.UserID)

	a.mu.Lock()
	defer a.mu.Unlock()

	pb, ok := a.pending[key]
	if !ok {
		pb = &pendingBatch{
			batch: Batch{
				ChatID:   item.ChatID,
				UserID:   item.UserID,
				Username: item.Username,
			},
		}
		a.pending[key] = pb
	}
	pb.batch.Texts = append(pb.batch.Texts, text)

	if pb.timer != nil {
		pb.timer.Stop()
	}
	pb.timer = time.AfterFunc(a.debounce, func() {
		a.flush(key)
	})
}

// Flush delivers whatever is pending for the user right away. It reports
// whether anything was pending.
func (a *Aggregator) Flush(chatID, userID int64) bool {
	key := makeKey(chatID, userID)

	a.mu.Lock()
	pb, ok := a.pending[key]
	if ok && pb.timer != nil {
		pb.timer.Stop()
	}
	a.mu.Unlock()

	if !ok {
		return false
	}
	a.flush(key)
	return true
}

func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	pb, ok := a.pending[key]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	batch := pb.batch
	onFlush := a.onFlush
	a.mu.Unlock()

	if onFlush != nil {
		onFlush(batch)
	}
}

func makeKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}
