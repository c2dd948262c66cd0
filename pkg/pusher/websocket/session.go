package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/pusher/events"
	"github.com/arnac-io/multisig-panel/pkg/pusher/metrics"
	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
)

// session is a light-weight implementation of JSON-RPC protocol over an HTTP connection from a client.
type session struct {
	logger            *zap.Logger
	conn              *websocket.Conn
	stateSource       sources.StateSource
	eventCh           chan event
	stateSubscription sources.CancelFn
	pingInterval      time.Duration
}

type event struct {
	Name   events.Name
	Method string
	Params []byte
}

func newSession(logger *zap.Logger, stateSource sources.StateSource, conn *websocket.Conn) *session {
	return &session{
		logger:       logger,
		eventCh:      make(chan event, 100),
		conn:         conn,
		stateSource:  stateSource,
		pingInterval: 5 * time.Second,
	}
}

func (s *session) cancel() {
	if s.stateSubscription != nil {
		s.stateSubscription()
		s.stateSubscription = nil
	}
}

func (s *session) Run(ctx context.Context) chan JsonRPCRequest {
	requestCh := make(chan JsonRPCRequest)
	go func() {
		defer s.cancel()
		// unblocks ReadMessage in the handler
		defer s.conn.Close()

		for {
			var err error
			select {
			case <-ctx.Done():
				return
			case e := <-s.eventCh:
				response := JsonRPCResponse{
					JSONRPC: "2.0",
					Method:  e.Method,
					Params:  e.Params,
				}
				metrics.WebsocketEventSent(e.Name)
				err = s.conn.WriteJSON(response)
			case request := <-requestCh:
				var response string
				switch request.Method {
				case "subscribe_state":
					response = s.subscribeToState(ctx)
				case "unsubscribe_state":
					response = s.unsubscribeFromState()
				default:
					response = "unknown method " + request.Method
				}
				err = s.writeResponse(response, request)
			case <-time.After(s.pingInterval):
				metrics.WebsocketEventSent(events.PingEvent)
				err = s.conn.WriteMessage(websocket.PingMessage, []byte{})
			}
			if err != nil {
				s.logger.Error("websocket session failed", zap.Error(err))
				return
			}
		}
	}()
	return requestCh
}

func (s *session) sendEvent(e event) {
	select {
	case s.eventCh <- e:
		metrics.WebsocketQueueLength(e.Name, len(s.eventCh))
	default:
		metrics.WebsocketEventDropped(e.Name)
		s.logger.Warn("event channel is full, dropping event",
			zap.String("event", string(e.Name)))
	}
}

func (s *session) subscribeToState(ctx context.Context) string {
	if s.stateSubscription != nil {
		return "you are already subscribed to state"
	}
	if s.stateSource == nil {
		return "state source is not configured"
	}
	s.stateSubscription = s.stateSource.SubscribeToState(ctx, func(eventData []byte) {
		s.sendEvent(event{Name: events.StateEvent, Method: "panel_state", Params: eventData})
	})
	return "success! you have subscribed to state"
}

func (s *session) unsubscribeFromState() string {
	if s.stateSubscription == nil {
		return "you are not subscribed to state"
	}
	s.cancel()
	return "success! you have unsubscribed from state"
}

func jsonRPCResponseMessage(message string, id uint64, jsonrpc, method string) (JsonRPCResponse, error) {
	mes, err := json.Marshal(message)
	if err != nil {
		return JsonRPCResponse{}, err
	}
	resp := JsonRPCResponse{
		ID:      id,
		JSONRPC: jsonrpc,
		Method:  method,
		Result:  mes,
	}
	return resp, nil
}

func (s *session) writeResponse(message string, request JsonRPCRequest) error {
	resp, err := jsonRPCResponseMessage(message, request.ID, request.JSONRPC, request.Method)
	if err != nil {
		return err
	}
	return s.conn.WriteJSON(resp)
}
