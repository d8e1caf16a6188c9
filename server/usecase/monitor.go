package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ponyo877/chatroom/server/domain"
	"go.uber.org/zap"
)

const DefaultHeartbeatInterval = time.Second

// Monitor periodically probes every subscription and evicts the ones whose
// consumer has gone away. It is the only path that takes a user offline.
type Monitor struct {
	room     *ChatRoom
	interval time.Duration
	log      *zap.Logger
	once     sync.Once
}

func NewMonitor(room *ChatRoom, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Monitor{
		room:     room,
		interval: interval,
		log:      room.log.Named("monitor"),
	}
}

// Start launches Run in the background once; later calls are no-ops.
func (m *Monitor) Start(ctx context.Context) {
	m.once.Do(func() {
		go m.Run(ctx)
	})
}

// Run sweeps every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("liveness monitor started", zap.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			m.log.Info("liveness monitor stopped")
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.log.Error("liveness sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one probe pass and returns the usernames of evicted subscriptions.
func (m *Monitor) Sweep(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() { m.room.metrics.observeSweep(time.Since(start)) }()

	c := m.room
	var evicted []string
	err := c.subscribers.Locked(func(subs *domain.Subscribers) error {
		m.log.Debug("probing subscriptions", zap.Strings("usernames", subs.Usernames()))
		dead := subs.Probe()
		c.metrics.setSubscribers(subs.Len())

		// Probe already dropped the dead subscriptions from the table, so each
		// one must be released here even if a logout broadcast fails.
		for _, sub := range dead {
			sub.Close()
			c.sessions.Release(sub.Username)
			evicted = append(evicted, sub.Username)
			m.log.Info("subscription evicted",
				zap.String("username", sub.Username),
				zap.String("subscription", sub.ID),
				zap.Duration("age", time.Since(sub.CreatedAt)),
			)
		}

		var errs []error
		for _, sub := range dead {
			if err := c.broadcastLocked(ctx, subs, domain.NewLogoutMessage(sub.Username), domain.MessageKindLogout); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	c.metrics.recordEvictions(len(evicted))
	if len(evicted) > 0 {
		c.metrics.setOnline(c.sessions.Len())
	}
	if n, lenErr := c.repo.Len(ctx); lenErr != nil {
		err = errors.Join(err, fmt.Errorf("read log length: %w", lenErr))
	} else {
		c.metrics.setLogLength(n)
	}
	return evicted, err
}
