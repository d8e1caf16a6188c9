package adaptor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ponyo877/chatroom/server/domain"
	"go.uber.org/zap"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 4096
)

// WebSocketAdaptor bridges a browser-style client onto the same room:
// every log entry is written as a text frame and every inbound text frame is
// posted through SendMessage. Liveness probes become ping frames.
type WebSocketAdaptor struct {
	uc       Usecase
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketAdaptor(uc Usecase, log *zap.Logger) *WebSocketAdaptor {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketAdaptor{
		uc:  uc,
		log: log.Named("websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeHTTP handles GET /ws?username=<name>&cursor=<n>.
func (a *WebSocketAdaptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	var cursor uint64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "cursor must be a non-negative integer", http.StatusBadRequest)
			return
		}
		cursor = parsed
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := a.uc.GetMessageStream(ctx, username, cursor)
	if err != nil {
		a.log.Error("open message stream failed", zap.String("username", username), zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "stream unavailable"),
			time.Now().Add(wsWriteWait))
		return
	}
	defer sub.Close()

	log := a.log.With(
		zap.String("username", username),
		zap.String("subscription", sub.ID),
		zap.String("remote", r.RemoteAddr),
	)
	log.Info("websocket client connected")

	go a.readPump(ctx, cancel, conn, username, log)
	a.writePump(ctx, conn, sub, log)
}

func (a *WebSocketAdaptor) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, username string, log *zap.Logger) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("websocket read failed", zap.Error(err))
			}
			return
		}
		ok, err := a.uc.SendMessage(ctx, username, string(data))
		if err != nil {
			log.Error("send message failed", zap.Error(err))
			return
		}
		if !ok {
			log.Debug("message rejected")
		}
	}
}

func (a *WebSocketAdaptor) writePump(ctx context.Context, conn *websocket.Conn, sub *domain.Subscription, log *zap.Logger) {
	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrSubscriptionClosed) && !errors.Is(err, context.Canceled) {
				log.Info("websocket stream ended", zap.Error(err))
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		}

		if domain.IsProbe(msg) {
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
		} else {
			if err = conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err == nil {
				err = conn.WriteMessage(websocket.TextMessage, []byte(msg))
			}
		}
		if err != nil {
			log.Info("websocket write failed", zap.Error(err))
			return
		}
	}
}
