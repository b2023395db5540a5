// Package metrics collects and exposes Prometheus metrics for the chat server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records chat server metrics. Implementations must be safe
// for concurrent use.
type Collector interface {
	RecordConnection()
	RecordAuthFailure()
	SessionStarted()
	SessionEnded()
	RecordCommand(kind string)
	RecordBroadcast(recipients int)
	RecordDirectMessage()
	RecordKick()
}

// PromCollector is the Prometheus-backed Collector.
type PromCollector struct {
	connections     prometheus.Counter
	authFailures    prometheus.Counter
	activeSessions  prometheus.Gauge
	commands        *prometheus.CounterVec
	broadcastFanout prometheus.Counter
	directMessages  prometheus.Counter
	kicks           prometheus.Counter
}

// NewCollector builds a PromCollector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netchat_connections_total",
			Help: "Accepted TCP connections.",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netchat_auth_failures_total",
			Help: "Connections dropped during authentication.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netchat_sessions_active",
			Help: "Currently registered sessions.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netchat_commands_total",
			Help: "Executed commands by kind.",
		}, []string{"kind"}),
		broadcastFanout: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netchat_broadcast_deliveries_total",
			Help: "Messages enqueued by channel broadcasts.",
		}),
		directMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netchat_direct_messages_total",
			Help: "Delivered private messages.",
		}),
		kicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netchat_kicks_total",
			Help: "Users removed by moderators.",
		}),
	}

	reg.MustRegister(
		c.connections,
		c.authFailures,
		c.activeSessions,
		c.commands,
		c.broadcastFanout,
		c.directMessages,
		c.kicks,
	)

	return c
}

// RecordConnection counts an accepted TCP connection.
func (c *PromCollector) RecordConnection() { c.connections.Inc() }

// RecordAuthFailure counts a connection that failed authentication.
func (c *PromCollector) RecordAuthFailure() { c.authFailures.Inc() }

// SessionStarted marks a session as registered.
func (c *PromCollector) SessionStarted() { c.activeSessions.Inc() }

// SessionEnded marks a session as deregistered.
func (c *PromCollector) SessionEnded() { c.activeSessions.Dec() }

// RecordCommand counts an executed command by kind.
func (c *PromCollector) RecordCommand(kind string) { c.commands.WithLabelValues(kind).Inc() }

// RecordBroadcast counts the recipients of one channel broadcast.
func (c *PromCollector) RecordBroadcast(recipients int) {
	c.broadcastFanout.Add(float64(recipients))
}

// RecordDirectMessage counts a delivered private message.
func (c *PromCollector) RecordDirectMessage() { c.directMessages.Inc() }

// RecordKick counts a moderator kick.
func (c *PromCollector) RecordKick() { c.kicks.Inc() }

// Handler returns an HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop is a Collector that records nothing. Used in tests.
type Noop struct{}

func (Noop) RecordConnection()        {}
func (Noop) RecordAuthFailure()       {}
func (Noop) SessionStarted()          {}
func (Noop) SessionEnded()            {}
func (Noop) RecordCommand(string)     {}
func (Noop) RecordBroadcast(int)      {}
func (Noop) RecordDirectMessage()     {}
func (Noop) RecordKick()              {}
