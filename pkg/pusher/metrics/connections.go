package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transport labels a state stream connection.
type Transport string

const (
	TransportSSE       Transport = "sse"
	TransportWebsocket Transport = "websocket"
)

var stateStreams = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "panel_state_streams_open",
		Help: "Panel state stream connections currently open, by transport.",
	},
	[]string{"transport"},
)

// StreamOpened counts a new state stream; the returned func closes it.
func StreamOpened(t Transport) (closed func()) {
	g := stateStreams.WithLabelValues(string(t))
	g.Inc()
	return g.Dec
}
