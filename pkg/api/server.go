package api

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
	"github.com/arnac-io/multisig-panel/pkg/pusher/sse"
	"github.com/arnac-io/multisig-panel/pkg/pusher/websocket"
)

type Server struct {
	logger     *zap.Logger
	httpServer *http.Server
	mux        *http.ServeMux
}

type ServerOptions struct {
	stateSource sources.StateSource
}

type ServerOption func(options *ServerOptions)

// WithStateSource enables the SSE and websocket state streams.
func WithStateSource(stateSource sources.StateSource) ServerOption {
	return func(options *ServerOptions) {
		options.stateSource = stateSource
	}
}

func NewServer(log *zap.Logger, handler *Handler, address string, opts ...ServerOption) *Server {
	options := &ServerOptions{}
	for _, o := range opts {
		o(options)
	}
	mux := http.NewServeMux()
	s := &Server{
		logger: log,
		mux:    mux,
		httpServer: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}

	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, applyMiddlewares(log, pattern, h))
	}
	route("GET /{$}", handler.GetPanel)
	route("POST /actions/{action}", handler.PostAction)
	route("GET /v1/state", handler.GetState)
	route("GET /v1/transactions/{index}", handler.GetTransaction)
	if options.stateSource != nil {
		sseHandler := sse.NewHandler(options.stateSource)
		route("GET /v1/sse/state", sse.Stream(log, sseHandler.SubscribeToState))
		route("GET /v1/ws/state", websocket.Handler(log, options.stateSource))
	}
	return s
}

// ServeHTTP lets tests drive the routes without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Run() {
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Info("panel quit")
		return
	}
	s.logger.Fatal("ListenAndServe() failed", zap.Error(err))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func applyMiddlewares(log *zap.Logger, operation string, handler http.Handler) http.Handler {
	handler = metricsMiddleware(operation)(handler)
	handler = loggingMiddleware(log)(handler)
	return recoverMiddleware(log)(handler)
}
