package domain

import (
	"sync"

	"github.com/samber/lo"
)

// SubscriberTable is the fan-out target for every broadcast and probe.
// It is only reachable through Locked, so callers cannot observe or leave
// it half-updated.
type SubscriberTable struct {
	mu   sync.Mutex
	subs []*Subscription
}

func NewSubscriberTable() *SubscriberTable {
	return &SubscriberTable{}
}

// Subscribers is the view handed to Locked callbacks. It must not escape fn.
type Subscribers struct {
	table *SubscriberTable
}

// Locked runs fn while holding the table lock. When an operation also needs
// the session registry, it has to take it from inside fn, never the other way round.
func (t *SubscriberTable) Locked(fn func(*Subscribers) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := &Subscribers{table: t}
	defer func() { view.table = nil }()
	return fn(view)
}

func (t *SubscriberTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (v *Subscribers) Add(sub *Subscription) {
	v.table.subs = append(v.table.subs, sub)
}

func (v *Subscribers) Len() int {
	return len(v.table.subs)
}

func (v *Subscribers) Usernames() []string {
	return lo.Map(v.table.subs, func(sub *Subscription, _ int) string {
		return sub.Username
	})
}

// Offer pushes msg to every subscription without blocking.
// Failed deliveries are left for the next probe to clean up.
func (v *Subscribers) Offer(msg string) (delivered, failed int) {
	for _, sub := range v.table.subs {
		if sub.Offer(msg) {
			delivered++
		} else {
			failed++
		}
	}
	return delivered, failed
}

// Probe sends a liveness probe to every subscription, removes the ones that
// refused it and returns them in table order.
func (v *Subscribers) Probe() []*Subscription {
	var evicted []*Subscription
	v.table.subs = lo.Filter(v.table.subs, func(sub *Subscription, _ int) bool {
		if sub.Offer(ProbeMessage) {
			return true
		}
		evicted = append(evicted, sub)
		return false
	})
	return evicted
}
