package sse

import (
	"net/http"
	"sync/atomic"
	"time"

	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
	"github.com/arnac-io/multisig-panel/pkg/pusher/events"
	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
)

// Handler handles http methods for sse.
type Handler struct {
	stateSource    sources.StateSource
	currentEventID int64
}

type handlerFunc func(session *session, request *http.Request) error

func NewHandler(stateSource sources.StateSource) *Handler {
	return &Handler{
		stateSource:    stateSource,
		currentEventID: time.Now().UnixNano(),
	}
}

func (h *Handler) SubscribeToState(session *session, request *http.Request) error {
	if h.stateSource == nil {
		return httperrors.BadRequest("state source is not configured")
	}
	cancelFn := h.stateSource.SubscribeToState(request.Context(), func(data []byte) {
		session.SendEvent(Event{
			Name:    events.StateEvent,
			EventID: h.nextID(),
			Data:    data,
		})
	})
	session.SetCancelFn(cancelFn)
	return nil
}

func (h *Handler) nextID() int64 {
	return atomic.AddInt64(&h.currentEventID, 1)
}
