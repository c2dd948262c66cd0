package sse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/pusher/metrics"
	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
)

// session represents an HTTP connection from a client and
// implements a loop to stream events from a channel to http.ResponseWriter.
type session struct {
	logger       *zap.Logger
	eventCh      chan Event
	cancel       sources.CancelFn
	pingInterval time.Duration
}

func newSession(logger *zap.Logger) *session {
	return &session{
		logger:       logger,
		eventCh:      make(chan Event, 100),
		cancel:       func() {},
		pingInterval: 5 * time.Second,
	}
}

// SendEvent never blocks: panel state is delivered from the goroutine running
// an action, so a slow client loses events instead of stalling it.
func (s *session) SendEvent(event Event) {
	select {
	case s.eventCh <- event:
		metrics.SseQueueLength(event.Name, len(s.eventCh))
	default:
		metrics.SseEventDropped(event.Name)
		s.logger.Warn("event channel is full, dropping event",
			zap.String("event", event.Name.String()))
	}
}

func (s *session) SetCancelFn(cancel sources.CancelFn) {
	s.cancel = cancel
}

func (s *session) StreamEvents(ctx context.Context, writer http.ResponseWriter) error {
	defer s.cancel()

	flusher := writer.(http.Flusher)
	for {
		var err error
		select {
		case <-ctx.Done():
			return nil
		case msg, open := <-s.eventCh:
			if !open {
				return nil
			}
			_, err = fmt.Fprintf(writer, "event: %v\nid: %v\ndata: %v\n\n", msg.Name, msg.EventID, string(msg.Data))
			metrics.SseEventSent(msg.Name)
		case <-time.After(s.pingInterval):
			_, err = fmt.Fprintf(writer, "event: heartbeat\n\n")
		}
		if err != nil {
			// closing a connection
			return err
		}
		flusher.Flush()
	}
}
