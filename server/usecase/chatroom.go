package usecase

import (
	"context"
	"fmt"

	"github.com/ponyo877/chatroom/server/domain"
	"go.uber.org/zap"
)

// ChatRoom composes the repository, the session registry and the subscriber
// table into the request-handling operations of the room.
//
// Lock order is fixed: subscriber table, then session registry, then the
// repository's own lock. Every method below takes them in that order.
type ChatRoom struct {
	repo        Repository
	sessions    *domain.SessionRegistry
	subscribers *domain.SubscriberTable
	log         *zap.Logger
	metrics     *Metrics
}

type Options struct {
	Logger  *zap.Logger
	Metrics *Metrics
}

func NewChatRoom(repo Repository, sessions *domain.SessionRegistry, subscribers *domain.SubscriberTable, opts Options) *ChatRoom {
	if sessions == nil {
		sessions = domain.NewSessionRegistry()
	}
	if subscribers == nil {
		subscribers = domain.NewSubscriberTable()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatRoom{
		repo:        repo,
		sessions:    sessions,
		subscribers: subscribers,
		log:         log,
		metrics:     opts.Metrics,
	}
}

// Login registers username on first use and marks it online. It returns false
// when the name is empty or already online.
func (c *ChatRoom) Login(ctx context.Context, username string) (bool, error) {
	if username == "" {
		c.metrics.recordLogin("rejected")
		return false, nil
	}

	var ok bool
	err := c.subscribers.Locked(func(subs *domain.Subscribers) error {
		claimed, err := c.sessions.Claim(username, func() (bool, error) {
			registered, err := c.repo.IsRegistered(ctx, username)
			if err != nil {
				return false, fmt.Errorf("check registration of %q: %w", username, err)
			}
			if registered {
				return true, nil
			}
			created, err := c.repo.Register(ctx, username)
			if err != nil {
				return false, fmt.Errorf("register %q: %w", username, err)
			}
			return created, nil
		})
		if err != nil || !claimed {
			return err
		}

		if err := c.broadcastLocked(ctx, subs, domain.NewLogonMessage(username), domain.MessageKindLogon); err != nil {
			c.sessions.Release(username)
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		c.metrics.recordLogin("error")
		return false, err
	}

	if !ok {
		c.metrics.recordLogin("rejected")
		c.log.Info("login rejected", zap.String("username", username))
		return false, nil
	}
	c.metrics.recordLogin("accepted")
	c.metrics.setOnline(c.sessions.Len())
	c.log.Info("user logged on", zap.String("username", username))
	return true, nil
}

// SendMessage appends "<username>: <text>" and fans it out. Only registration
// is checked: a registered user who is currently offline may still post.
func (c *ChatRoom) SendMessage(ctx context.Context, username, text string) (bool, error) {
	registered, err := c.repo.IsRegistered(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check registration of %q: %w", username, err)
	}
	if !registered {
		c.log.Debug("message from unregistered user dropped", zap.String("username", username))
		return false, nil
	}

	err = c.subscribers.Locked(func(subs *domain.Subscribers) error {
		return c.broadcastLocked(ctx, subs, domain.NewUserMessage(username, text), domain.MessageKindUser)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetMessageStream opens a subscription preloaded with every message from
// cursor on. The backlog read and the registration happen in one critical
// section, so a concurrent broadcast lands either in the backlog or in the
// live feed, never in both and never in neither.
func (c *ChatRoom) GetMessageStream(ctx context.Context, username string, cursor uint64) (*domain.Subscription, error) {
	sub := domain.NewSubscription(username)

	var replayed int
	err := c.subscribers.Locked(func(subs *domain.Subscribers) error {
		backlog, err := c.repo.ReadFrom(ctx, cursor)
		if err != nil {
			return fmt.Errorf("read backlog from %d: %w", cursor, err)
		}
		for _, msg := range backlog {
			sub.Offer(msg)
		}
		replayed = len(backlog)
		subs.Add(sub)
		c.metrics.setSubscribers(subs.Len())
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("subscription opened",
		zap.String("username", username),
		zap.String("subscription", sub.ID),
		zap.Uint64("cursor", cursor),
		zap.Int("replayed", replayed),
	)
	return sub, nil
}

func (c *ChatRoom) OnlineUsers() []string {
	return c.sessions.Online()
}

func (c *ChatRoom) IsOnline(username string) bool {
	return c.sessions.IsOnline(username)
}

func (c *ChatRoom) SubscriberCount() int {
	return c.subscribers.Len()
}

// broadcastLocked must only be called from inside subscribers.Locked.
// Appending and fanning out under the same lock keeps every subscriber's
// delivery order identical to the log order.
func (c *ChatRoom) broadcastLocked(ctx context.Context, subs *domain.Subscribers, msg string, kind domain.MessageKind) error {
	index, err := c.repo.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("append %s message: %w", kind, err)
	}
	delivered, failed := subs.Offer(msg)
	if failed > 0 {
		c.log.Debug("tried to send to a dropped client", zap.Int("failed", failed))
		c.metrics.recordDeliveryFailures(failed)
	}
	c.metrics.recordMessage(kind.String())
	c.log.Debug("message broadcast",
		zap.Uint64("index", index),
		zap.String("kind", kind.String()),
		zap.Int("delivered", delivered),
	)
	return nil
}
