package api

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
)

type httpMiddleware func(http.Handler) http.Handler

// statusRecorder keeps the status code written by a handler. Flush and
// Hijack keep streaming and websocket upgrades working behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func loggingMiddleware(logger *zap.Logger) httpMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logger.With(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			logger.Debug("Handling request")
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			started := time.Now()
			next.ServeHTTP(rec, r)
			fields := []zap.Field{zap.Int("status", rec.status), zap.Duration("duration", time.Since(started))}
			if rec.status >= http.StatusInternalServerError {
				logger.Error("Fail", fields...)
			} else {
				logger.Info("Success", fields...)
			}
		})
	}
}

var httpResponseTimeMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem:   "http",
	Name:        "request_duration_seconds",
	Help:        "",
	ConstLabels: nil,
	Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 10, 60},
}, []string{"operation"})

// metricsMiddleware labels requests by route pattern.
func metricsMiddleware(operation string) httpMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := prometheus.NewTimer(httpResponseTimeMetric.WithLabelValues(operation))
			defer t.ObserveDuration()
			next.ServeHTTP(w, r)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) httpMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("panic while handling request",
						zap.String("path", r.URL.Path),
						zap.Any("panic", v),
						zap.Stack("stack"))
					writeError(w, httperrors.InternalServerError("internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
