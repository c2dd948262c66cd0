package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arnac-io/multisig-panel/pkg/pusher/events"
)

var (
	queueLengthMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "panel_state_stream_queue_length",
		Help:    "Length of a stream connection queue right after an event is enqueued.",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	}, []string{"type", "event"})
)

func SseQueueLength(event events.Name, length int) {
	queueLengthMetric.With(map[string]string{"type": "sse", "event": event.String()}).Observe(float64(length))
}

func WebsocketQueueLength(event events.Name, length int) {
	queueLengthMetric.With(map[string]string{"type": "websocket", "event": event.String()}).Observe(float64(length))
}
