package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the server
type Metrics struct {
	// Session metrics
	activeSessions       prometheus.Gauge
	sessionsCreated      prometheus.Counter
	sessionsDisconnected prometheus.Counter

	// Account metrics
	accountsCreated prometheus.Counter
	logins          prometheus.Counter
	logouts         prometheus.Counter

	// Routing metrics
	messagesRouted   *prometheus.CounterVec // by kind: "broadcast" or "direct"
	broadcastFanout  prometheus.Histogram
	commandsReceived *prometheus.CounterVec // by command keyword
	denials          prometheus.Counter
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		activeSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "plainchat_active_sessions",
				Help: "Current number of active sessions",
			},
		),
		sessionsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_sessions_created_total",
				Help: "Total number of sessions created",
			},
		),
		sessionsDisconnected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_sessions_disconnected_total",
				Help: "Total number of sessions disconnected",
			},
		),
		accountsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_accounts_created_total",
				Help: "Total number of user accounts created",
			},
		),
		logins: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_logins_total",
				Help: "Total number of successful logins",
			},
		),
		logouts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_logouts_total",
				Help: "Total number of logouts",
			},
		),
		messagesRouted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plainchat_messages_routed_total",
				Help: "Total number of chat messages delivered to clients",
			},
			[]string{"kind"},
		),
		broadcastFanout: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "plainchat_broadcast_fanout",
				Help:    "Number of clients that received each broadcast",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		commandsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plainchat_commands_received_total",
				Help: "Total number of commands received by keyword",
			},
			[]string{"command"},
		),
		denials: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "plainchat_denials_total",
				Help: "Total number of denied requests",
			},
		),
	}
}

// RecordActiveSessions updates the active session count
func (m *Metrics) RecordActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

// RecordSessionCreated increments the session creation counter
func (m *Metrics) RecordSessionCreated() {
	m.sessionsCreated.Inc()
}

// RecordSessionDisconnected increments the session disconnection counter
func (m *Metrics) RecordSessionDisconnected() {
	m.sessionsDisconnected.Inc()
}

// RecordAccountCreated increments the account creation counter
func (m *Metrics) RecordAccountCreated() {
	m.accountsCreated.Inc()
}

// RecordLogin increments the login counter
func (m *Metrics) RecordLogin() {
	m.logins.Inc()
}

// RecordLogout increments the logout counter
func (m *Metrics) RecordLogout() {
	m.logouts.Inc()
}

// RecordMessagesRouted adds delivered message counts for a routing kind
func (m *Metrics) RecordMessagesRouted(kind string, count int) {
	if count > 0 {
		m.messagesRouted.WithLabelValues(kind).Add(float64(count))
	}
}

// RecordBroadcastFanout records how many clients received a broadcast
func (m *Metrics) RecordBroadcastFanout(recipientCount int) {
	m.broadcastFanout.Observe(float64(recipientCount))
}

// RecordCommandReceived increments the command counter for a keyword
func (m *Metrics) RecordCommandReceived(command string) {
	m.commandsReceived.WithLabelValues(command).Inc()
}

// RecordDenial increments the denial counter
func (m *Metrics) RecordDenial() {
	m.denials.Inc()
}
