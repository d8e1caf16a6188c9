package domain

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrSubscriptionClosed = errors.New("subscription closed")

// Subscription is a live delivery queue bound to a username.
// Producers call Offer, which never blocks; the single consumer drains it
// with Next and calls Close once its connection is gone.
type Subscription struct {
	ID        string
	Username  string
	CreatedAt time.Time

	mu     sync.Mutex
	queue  []string
	closed bool
	notify chan struct{}
	done   chan struct{}
}

func NewSubscription(username string) *Subscription {
	return &Subscription{
		ID:        ulid.Make().String(),
		Username:  username,
		CreatedAt: time.Now(),
		notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Offer enqueues msg. It returns false once the subscription is closed,
// which is the only signal a producer gets that the consumer went away.
func (s *Subscription) Offer(msg string) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// Next blocks until a message is queued, the subscription is closed or ctx ends.
func (s *Subscription) Next(ctx context.Context) (string, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return "", ErrSubscriptionClosed
		}
		if len(s.queue) > 0 {
			msg := s.queue[0]
			s.queue[0] = ""
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return msg, nil
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-s.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}

func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Subscription) String() string {
	return s.Username + "#" + s.ID
}
