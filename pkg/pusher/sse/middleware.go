package sse

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
	"github.com/arnac-io/multisig-panel/pkg/pusher/metrics"
)

func writeError(writer http.ResponseWriter, err error) {
	var httpErr httperrors.HTTPError
	if errors.As(err, &httpErr) {
		writer.WriteHeader(httpErr.Code)
		writer.Write([]byte(httpErr.Message))
		return
	}
	writer.WriteHeader(http.StatusInternalServerError)
	writer.Write([]byte(err.Error()))
}

// Stream turns handler into an http.HandlerFunc writing text/event-stream.
func Stream(logger *zap.Logger, handler handlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		_, ok := writer.(http.Flusher)
		if !ok {
			writeError(writer, httperrors.InternalServerError("streaming unsupported"))
			return
		}

		writer.Header().Set("Content-Type", "text/event-stream")
		writer.Header().Set("Cache-Control", "no-cache")
		writer.Header().Set("Connection", "keep-alive")

		defer metrics.StreamOpened(metrics.TransportSSE)()

		session := newSession(logger)
		if err := handler(session, request); err != nil {
			writeError(writer, err)
			return
		}
		if err := session.StreamEvents(request.Context(), writer); err != nil {
			logger.Debug("sse stream closed", zap.Error(err))
		}
	}
}
