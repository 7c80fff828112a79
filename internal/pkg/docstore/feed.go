package docstore

import "sync"

// Feed is a Subscription backed by a single-slot mailbox. Publishing replaces
// an undelivered event, so a slow reader always sees the newest snapshot and
// publishers never block.
type Feed struct {
	mu      sync.Mutex
	ch      chan Event
	done    chan struct{}
	closed  bool
	onClose func()
}

// NewFeed returns an open feed. onClose, if set, runs once after the feed is closed.
func NewFeed(onClose func()) *Feed {
	return &Feed{
		ch:      make(chan Event, 1),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Publish offers ev to the reader. It reports false once the feed is closed.
func (f *Feed) Publish(ev Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	select {
	case <-f.ch:
	default:
	}
	f.ch <- ev
	return true
}

func (f *Feed) Events() <-chan Event { return f.ch }

// Done is closed when the feed closes.
func (f *Feed) Done() <-chan struct{} { return f.done }

func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.ch)
	close(f.done)
	f.mu.Unlock()

	if f.onClose != nil {
		f.onClose()
	}
	return nil
}
