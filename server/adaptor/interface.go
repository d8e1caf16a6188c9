package adaptor

import (
	"context"

	"github.com/ponyo877/chatroom/server/domain"
)

type Usecase interface {
	Login(ctx context.Context, username string) (bool, error)
	SendMessage(ctx context.Context, username, text string) (bool, error)
	GetMessageStream(ctx context.Context, username string, cursor uint64) (*domain.Subscription, error)
}
