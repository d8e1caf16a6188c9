package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ponyo877/chatroom/server/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type sliceRepo struct {
	mu       sync.Mutex
	users    map[string]bool
	messages []string
}

func (r *sliceRepo) Register(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users[username] {
		return false, nil
	}
	r.users[username] = true
	return true, nil
}

func (r *sliceRepo) IsRegistered(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[username], nil
}

func (r *sliceRepo) Append(_ context.Context, text string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
	return uint64(len(r.messages) - 1), nil
}

func (r *sliceRepo) ReadFrom(_ context.Context, cursor uint64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cursor >= uint64(len(r.messages)) {
		return []string{}, nil
	}
	return append([]string(nil), r.messages[cursor:]...), nil
}

func (r *sliceRepo) Len(_ context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(len(r.messages)), nil
}

func TestMetricsTrackRoomActivity(t *testing.T) {
	ctx := context.Background()
	metrics := NewMetrics(prometheus.NewRegistry())
	room := NewChatRoom(&sliceRepo{users: map[string]bool{}}, domain.NewSessionRegistry(), domain.NewSubscriberTable(), Options{
		Logger:  zaptest.NewLogger(t),
		Metrics: metrics,
	})
	monitor := NewMonitor(room, time.Hour)

	_, err := room.Login(ctx, "alice")
	require.NoError(t, err)
	_, err = room.Login(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.logins.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.logins.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.online))

	sub, err := room.GetMessageStream(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.subscribers))

	_, err = room.SendMessage(ctx, "alice", "hi")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.messages.WithLabelValues("user")))

	sub.Close()
	_, err = room.SendMessage(ctx, "alice", "into the void")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.deliveryFailures))

	_, err = monitor.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.evictions))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.subscribers))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.online))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.messages.WithLabelValues("logout")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.logLength))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.recordLogin("accepted")
	m.recordMessage("user")
	m.setSubscribers(3)
	m.setOnline(2)
	m.setLogLength(5)
	m.recordEvictions(1)
	m.recordDeliveryFailures(1)
	m.observeSweep(time.Millisecond)
}
