package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
)

type mockStateSource struct {
	states    [][]byte
	cancelled atomic.Bool
}

func (m *mockStateSource) SubscribeToState(ctx context.Context, deliveryFn sources.DeliveryFn) sources.CancelFn {
	for _, s := range m.states {
		deliveryFn(s)
	}
	return func() { m.cancelled.Store(true) }
}

var _ sources.StateSource = (*mockStateSource)(nil)

func TestHandler_SubscribeToState(t *testing.T) {
	source := &mockStateSource{states: [][]byte{
		[]byte(`{"in_flight":true}`),
		[]byte(`{"in_flight":false}`),
	}}
	handler := NewHandler(source)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	request := httptest.NewRequest(http.MethodGet, "/v1/sse/state", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	Stream(zap.NewNop(), handler.SubscribeToState)(rec, request)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Equal(t, 2, strings.Count(body, "event: state\n"))
	require.True(t, strings.Index(body, `data: {"in_flight":true}`) < strings.Index(body, `data: {"in_flight":false}`))
	require.True(t, source.cancelled.Load())
}

func TestHandler_NoSource(t *testing.T) {
	handler := NewHandler(nil)
	rec := httptest.NewRecorder()
	Stream(zap.NewNop(), handler.SubscribeToState)(rec, httptest.NewRequest(http.MethodGet, "/v1/sse/state", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
