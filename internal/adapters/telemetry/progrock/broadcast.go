package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

// Broadcast is a progrock.Writer fanning every status update out to its subscribers.
type Broadcast struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

var _ progrock.Writer = (*Broadcast)(nil)

// NewBroadcast creates a Broadcast without subscribers.
func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

// Subscribe returns a Subscription receiving every update written after the call.
// Subscribing to a closed Broadcast yields an already ended Subscription.
func (b *Broadcast) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription()
	if b.closed {
		sub.end()
		return sub
	}
	b.subs = append(b.subs, sub)
	return sub
}

// WriteStatus forwards the update to every subscriber.
func (b *Broadcast) WriteStatus(update *progrock.StatusUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	for _, sub := range b.subs {
		sub.push(update)
	}
	return nil
}

// Close ends every subscription. Pending updates remain readable.
func (b *Broadcast) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		sub.end()
	}
	b.subs = nil
	return nil
}

// Subscription is an unbounded queue of status updates.
type Subscription struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []*progrock.StatusUpdate
	ended   bool
}

func newSubscription() *Subscription {
	s := &Subscription{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Read blocks until an update is available. It returns io.EOF once the
// Broadcast is closed and every pending update has been read.
func (s *Subscription) Read() (*progrock.StatusUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.pending) == 0 && !s.ended {
		s.cond.Wait()
	}
	if len(s.pending) == 0 {
		return nil, io.EOF
	}
	update := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return update, nil
}

func (s *Subscription) push(update *progrock.StatusUpdate) {
	s.mu.Lock()
	s.pending = append(s.pending, update)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *Subscription) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
