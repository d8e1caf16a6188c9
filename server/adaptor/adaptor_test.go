package adaptor

import (
	"context"
	"net"
	"testing"
	"time"

	pb "github.com/ponyo877/chatroom/pkg/api/chatroompb"
	"github.com/ponyo877/chatroom/server/repository"
	"github.com/ponyo877/chatroom/server/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func startTestServer(t *testing.T) (pb.ChatRoomClient, *usecase.ChatRoom, *usecase.Monitor) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	room := usecase.NewChatRoom(repository.NewMemory(), nil, nil, usecase.Options{Logger: zaptest.NewLogger(t)})
	srv := grpc.NewServer()
	pb.RegisterChatRoomServer(srv, NewAdaptor(room, zaptest.NewLogger(t)))
	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil {
			t.Logf("gRPC serve error: %v", serveErr)
		}
	}()
	t.Cleanup(func() {
		srv.Stop()
		listener.Close()
	})

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return pb.NewChatRoomClient(conn), room, usecase.NewMonitor(room, time.Hour)
}

func recvNonProbe(t *testing.T, stream pb.ChatRoom_GetMessageStreamClient) string {
	t.Helper()
	for {
		reply, err := stream.Recv()
		require.NoError(t, err)
		if !reply.IsProbe() {
			return reply.GetMessage()
		}
	}
}

func TestGRPCEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	client, _, _ := startTestServer(t)

	login, err := client.Login(ctx, &pb.LoginRequest{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, login.GetOk())

	login, err = client.Login(ctx, &pb.LoginRequest{Username: "alice"})
	require.NoError(t, err)
	assert.False(t, login.GetOk())

	stream, err := client.GetMessageStream(ctx, &pb.GetMessageStreamRequest{Username: "alice", Cursor: 0})
	require.NoError(t, err)
	assert.Equal(t, "alice logged on!", recvNonProbe(t, stream))

	sent, err := client.SendMessage(ctx, &pb.SendMessageRequest{Username: "alice", Message: "hi"})
	require.NoError(t, err)
	assert.True(t, sent.GetOk())
	assert.Equal(t, "alice: hi", recvNonProbe(t, stream))

	sent, err = client.SendMessage(ctx, &pb.SendMessageRequest{Username: "bob", Message: "yo"})
	require.NoError(t, err)
	assert.False(t, sent.GetOk())
}

func TestGRPCStreamDisconnectIsEvicted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	client, room, monitor := startTestServer(t)

	_, err := client.Login(ctx, &pb.LoginRequest{Username: "alice"})
	require.NoError(t, err)
	_, err = client.Login(ctx, &pb.LoginRequest{Username: "bob"})
	require.NoError(t, err)

	aliceCtx, aliceCancel := context.WithCancel(ctx)
	aliceStream, err := client.GetMessageStream(aliceCtx, &pb.GetMessageStreamRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice logged on!", recvNonProbe(t, aliceStream))

	bobStream, err := client.GetMessageStream(ctx, &pb.GetMessageStreamRequest{Username: "bob", Cursor: 2})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return room.SubscriberCount() == 2 }, time.Second, 10*time.Millisecond)

	aliceCancel()

	require.Eventually(t, func() bool {
		evicted, err := monitor.Sweep(ctx)
		return err == nil && len(evicted) == 1 && evicted[0] == "alice"
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, "alice logged out!", recvNonProbe(t, bobStream))
	assert.False(t, room.IsOnline("alice"))

	login, err := client.Login(ctx, &pb.LoginRequest{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, login.GetOk())
}

func TestGRPCReplayFromCursor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	client, _, _ := startTestServer(t)

	_, err := client.Login(ctx, &pb.LoginRequest{Username: "alice"})
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		_, err := client.SendMessage(ctx, &pb.SendMessageRequest{Username: "alice", Message: text})
		require.NoError(t, err)
	}

	stream, err := client.GetMessageStream(ctx, &pb.GetMessageStreamRequest{Username: "late", Cursor: 2})
	require.NoError(t, err)
	assert.Equal(t, "alice: two", recvNonProbe(t, stream))
	assert.Equal(t, "alice: three", recvNonProbe(t, stream))
}

func TestMessageStringRendersFields(t *testing.T) {
	req := &pb.SendMessageRequest{Username: "alice", Message: "hi"}
	assert.Contains(t, req.String(), "alice")
	assert.Contains(t, req.String(), "hi")

	var nilReply *pb.GetMessageStreamReply
	assert.True(t, nilReply.IsProbe())
}
