// Package chatroompb holds the Go bindings for proto/chatroom.proto.
//
// The message types are plain structs carrying protobuf field tags, so the
// protobuf runtime derives their descriptors from the tags at first use and
// the default gRPC codec marshals them in the standard wire format. Keep the
// tags in sync with the .proto file.
package chatroompb

import (
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/protoadapt"
)

type LoginRequest struct {
	Username string `protobuf:"bytes,1,opt,name=username,proto3" json:"username,omitempty"`
}

func (m *LoginRequest) Reset()         { *m = LoginRequest{} }
func (m *LoginRequest) String() string { return messageString(m) }
func (*LoginRequest) ProtoMessage()    {}

func (m *LoginRequest) GetUsername() string {
	if m != nil {
		return m.Username
	}
	return ""
}

type LoginReply struct {
	Ok bool `protobuf:"varint,1,opt,name=ok,proto3" json:"ok,omitempty"`
}

func (m *LoginReply) Reset()         { *m = LoginReply{} }
func (m *LoginReply) String() string { return messageString(m) }
func (*LoginReply) ProtoMessage()    {}

func (m *LoginReply) GetOk() bool {
	if m != nil {
		return m.Ok
	}
	return false
}

type SendMessageRequest struct {
	Username string `protobuf:"bytes,1,opt,name=username,proto3" json:"username,omitempty"`
	Message  string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *SendMessageRequest) Reset()         { *m = SendMessageRequest{} }
func (m *SendMessageRequest) String() string { return messageString(m) }
func (*SendMessageRequest) ProtoMessage()    {}

func (m *SendMessageRequest) GetUsername() string {
	if m != nil {
		return m.Username
	}
	return ""
}

func (m *SendMessageRequest) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

type SendMessageReply struct {
	Ok bool `protobuf:"varint,1,opt,name=ok,proto3" json:"ok,omitempty"`
}

func (m *SendMessageReply) Reset()         { *m = SendMessageReply{} }
func (m *SendMessageReply) String() string { return messageString(m) }
func (*SendMessageReply) ProtoMessage()    {}

func (m *SendMessageReply) GetOk() bool {
	if m != nil {
		return m.Ok
	}
	return false
}

type GetMessageStreamRequest struct {
	Username string `protobuf:"bytes,1,opt,name=username,proto3" json:"username,omitempty"`
	Cursor   uint64 `protobuf:"varint,2,opt,name=cursor,proto3" json:"cursor,omitempty"`
}

func (m *GetMessageStreamRequest) Reset()         { *m = GetMessageStreamRequest{} }
func (m *GetMessageStreamRequest) String() string { return messageString(m) }
func (*GetMessageStreamRequest) ProtoMessage()    {}

func (m *GetMessageStreamRequest) GetUsername() string {
	if m != nil {
		return m.Username
	}
	return ""
}

func (m *GetMessageStreamRequest) GetCursor() uint64 {
	if m != nil {
		return m.Cursor
	}
	return 0
}

// GetMessageStreamReply carries one log entry. An empty Message is a probe.
type GetMessageStreamReply struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *GetMessageStreamReply) Reset()         { *m = GetMessageStreamReply{} }
func (m *GetMessageStreamReply) String() string { return messageString(m) }
func (*GetMessageStreamReply) ProtoMessage()    {}

func (m *GetMessageStreamReply) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

// IsProbe reports whether the reply is a liveness probe rather than a chat line.
func (m *GetMessageStreamReply) IsProbe() bool {
	return m.GetMessage() == ""
}

func messageString(m protoadapt.MessageV1) string {
	return prototext.Format(protoadapt.MessageV2Of(m))
}
