package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every recorder turns into a no-op.
type Metrics struct {
	logins           *prometheus.CounterVec
	messages         *prometheus.CounterVec
	subscribers      prometheus.Gauge
	online           prometheus.Gauge
	logLength        prometheus.Gauge
	evictions        prometheus.Counter
	deliveryFailures prometheus.Counter
	sweepDuration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatroom_logins_total",
			Help: "Login attempts grouped by result.",
		}, []string{"result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatroom_messages_total",
			Help: "Messages appended to the log grouped by kind.",
		}, []string{"kind"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatroom_subscribers_active",
			Help: "Current number of live message streams.",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatroom_online_users",
			Help: "Current number of users with an active login session.",
		}),
		logLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatroom_log_length",
			Help: "Number of messages in the log, refreshed on every liveness sweep.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatroom_evictions_total",
			Help: "Subscriptions evicted by the liveness monitor.",
		}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatroom_delivery_failures_total",
			Help: "Broadcast deliveries refused by a closed subscription.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatroom_sweep_duration_seconds",
			Help:    "Time spent in one liveness sweep.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	reg.MustRegister(
		m.logins,
		m.messages,
		m.subscribers,
		m.online,
		m.logLength,
		m.evictions,
		m.deliveryFailures,
		m.sweepDuration,
	)
	return m
}

func (m *Metrics) recordLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) recordMessage(kind string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(kind).Inc()
}

func (m *Metrics) setSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

func (m *Metrics) setOnline(n int) {
	if m == nil {
		return
	}
	m.online.Set(float64(n))
}

func (m *Metrics) setLogLength(n uint64) {
	if m == nil {
		return
	}
	m.logLength.Set(float64(n))
}

func (m *Metrics) recordEvictions(n int) {
	if m == nil || n == 0 {
		return
	}
	m.evictions.Add(float64(n))
}

func (m *Metrics) recordDeliveryFailures(n int) {
	if m == nil || n == 0 {
		return
	}
	m.deliveryFailures.Add(float64(n))
}

func (m *Metrics) observeSweep(dur time.Duration) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(dur.Seconds())
}
