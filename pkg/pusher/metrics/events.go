package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arnac-io/multisig-panel/pkg/pusher/events"
)

var (
	eventsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panel_state_stream_events_total",
			Help: "State events written to stream connections.",
		},
		[]string{"type", "event"},
	)
	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panel_state_stream_dropped_events_total",
			Help: "State events dropped because a connection queue was full.",
		},
		[]string{"type", "event"},
	)
)

func SseEventSent(event events.Name) {
	eventsSent.With(map[string]string{"type": "sse", "event": event.String()}).Inc()
}

func WebsocketEventSent(event events.Name) {
	eventsSent.With(map[string]string{"type": "websocket", "event": event.String()}).Inc()
}

func SseEventDropped(event events.Name) {
	eventsDropped.With(map[string]string{"type": "sse", "event": event.String()}).Inc()
}

func WebsocketEventDropped(event events.Name) {
	eventsDropped.With(map[string]string{"type": "websocket", "event": event.String()}).Inc()
}
