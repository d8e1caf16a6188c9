package adaptor

import (
	"context"
	"errors"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"
	"github.com/ponyo877/chatroom/server/domain"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Adaptor serves the ChatRoom gRPC service on top of a Usecase.
// Policy rejections travel as ok=false; only internal faults become gRPC errors.
type Adaptor struct {
	uc  Usecase
	log *zap.Logger
	pb.UnimplementedChatRoomServer
}

func NewAdaptor(uc Usecase, log *zap.Logger) *Adaptor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adaptor{uc: uc, log: log}
}

func (a *Adaptor) Login(ctx context.Context, in *pb.LoginRequest) (*pb.LoginReply, error) {
	ok, err := a.uc.Login(ctx, in.GetUsername())
	if err != nil {
		a.log.Error("login failed", zap.String("username", in.GetUsername()), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "login: %v", err)
	}
	return &pb.LoginReply{Ok: ok}, nil
}

func (a *Adaptor) SendMessage(ctx context.Context, in *pb.SendMessageRequest) (*pb.SendMessageReply, error) {
	ok, err := a.uc.SendMessage(ctx, in.GetUsername(), in.GetMessage())
	if err != nil {
		a.log.Error("send message failed", zap.String("username", in.GetUsername()), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "send message: %v", err)
	}
	return &pb.SendMessageReply{Ok: ok}, nil
}

// GetMessageStream pumps the subscription into the stream until either side
// goes away. Closing the subscription on exit is what lets the liveness
// monitor notice the disconnect on its next sweep.
func (a *Adaptor) GetMessageStream(in *pb.GetMessageStreamRequest, stream pb.ChatRoom_GetMessageStreamServer) error {
	ctx := stream.Context()
	remote := "unknown"
	if p, ok := peer.FromContext(ctx); ok {
		remote = p.Addr.String()
	}

	sub, err := a.uc.GetMessageStream(ctx, in.GetUsername(), in.GetCursor())
	if err != nil {
		a.log.Error("open message stream failed",
			zap.String("username", in.GetUsername()),
			zap.Uint64("cursor", in.GetCursor()),
			zap.Error(err),
		)
		return status.Errorf(codes.Internal, "open message stream: %v", err)
	}
	defer sub.Close()

	log := a.log.With(
		zap.String("username", sub.Username),
		zap.String("subscription", sub.ID),
		zap.String("remote", remote),
	)
	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSubscriptionClosed) {
				log.Info("message stream closed by server")
				return nil
			}
			log.Info("client disconnected", zap.Error(err))
			return status.FromContextError(err).Err()
		}
		if err := stream.Send(&pb.GetMessageStreamReply{Message: msg}); err != nil {
			log.Info("failed to send to client", zap.Error(err))
			return err
		}
	}
}
