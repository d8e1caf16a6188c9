package chatroompb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ChatRoom_Login_FullMethodName            = "/chatroom.ChatRoom/Login"
	ChatRoom_SendMessage_FullMethodName      = "/chatroom.ChatRoom/SendMessage"
	ChatRoom_GetMessageStream_FullMethodName = "/chatroom.ChatRoom/GetMessageStream"
)

// ChatRoomClient is the client API for the ChatRoom service.
type ChatRoomClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginReply, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageReply, error)
	GetMessageStream(ctx context.Context, in *GetMessageStreamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[GetMessageStreamReply], error)
}

type chatRoomClient struct {
	cc grpc.ClientConnInterface
}

func NewChatRoomClient(cc grpc.ClientConnInterface) ChatRoomClient {
	return &chatRoomClient{cc}
}

func (c *chatRoomClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginReply, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(LoginReply)
	if err := c.cc.Invoke(ctx, ChatRoom_Login_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatRoomClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageReply, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(SendMessageReply)
	if err := c.cc.Invoke(ctx, ChatRoom_SendMessage_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatRoomClient) GetMessageStream(ctx context.Context, in *GetMessageStreamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[GetMessageStreamReply], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ChatRoom_ServiceDesc.Streams[0], ChatRoom_GetMessageStream_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[GetMessageStreamRequest, GetMessageStreamReply]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ChatRoom_GetMessageStreamClient is the client side of the message stream.
type ChatRoom_GetMessageStreamClient = grpc.ServerStreamingClient[GetMessageStreamReply]

// ChatRoomServer is the server API for the ChatRoom service.
// Implementations must embed UnimplementedChatRoomServer.
type ChatRoomServer interface {
	Login(context.Context, *LoginRequest) (*LoginReply, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageReply, error)
	GetMessageStream(*GetMessageStreamRequest, grpc.ServerStreamingServer[GetMessageStreamReply]) error
	mustEmbedUnimplementedChatRoomServer()
}

// UnimplementedChatRoomServer must be embedded by value.
type UnimplementedChatRoomServer struct{}

func (UnimplementedChatRoomServer) Login(context.Context, *LoginRequest) (*LoginReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedChatRoomServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendMessage not implemented")
}

func (UnimplementedChatRoomServer) GetMessageStream(*GetMessageStreamRequest, grpc.ServerStreamingServer[GetMessageStreamReply]) error {
	return status.Errorf(codes.Unimplemented, "method GetMessageStream not implemented")
}

func (UnimplementedChatRoomServer) mustEmbedUnimplementedChatRoomServer() {}

// ChatRoom_GetMessageStreamServer is the server side of the message stream.
type ChatRoom_GetMessageStreamServer = grpc.ServerStreamingServer[GetMessageStreamReply]

func RegisterChatRoomServer(s grpc.ServiceRegistrar, srv ChatRoomServer) {
	s.RegisterService(&ChatRoom_ServiceDesc, srv)
}

func _ChatRoom_Login_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LoginRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatRoomServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChatRoom_Login_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatRoomServer).Login(ctx, req.(*LoginRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatRoom_SendMessage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatRoomServer).SendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChatRoom_SendMessage_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatRoomServer).SendMessage(ctx, req.(*SendMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatRoom_GetMessageStream_Handler(srv any, stream grpc.ServerStream) error {
	m := new(GetMessageStreamRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatRoomServer).GetMessageStream(m, &grpc.GenericServerStream[GetMessageStreamRequest, GetMessageStreamReply]{ServerStream: stream})
}

// ChatRoom_ServiceDesc is the grpc.ServiceDesc for the ChatRoom service.
var ChatRoom_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chatroom.ChatRoom",
	HandlerType: (*ChatRoomServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Login",
			Handler:    _ChatRoom_Login_Handler,
		},
		{
			MethodName: "SendMessage",
			Handler:    _ChatRoom_SendMessage_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetMessageStream",
			Handler:       _ChatRoom_GetMessageStream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "chatroom.proto",
}
