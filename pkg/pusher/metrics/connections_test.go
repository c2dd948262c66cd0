package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStreamOpened(t *testing.T) {
	sse := stateStreams.WithLabelValues(string(TransportSSE))
	ws := stateStreams.WithLabelValues(string(TransportWebsocket))
	base := testutil.ToFloat64(sse)

	closeFirst := StreamOpened(TransportSSE)
	closeSecond := StreamOpened(TransportSSE)
	require.Equal(t, base+2, testutil.ToFloat64(sse))
	require.Equal(t, float64(0), testutil.ToFloat64(ws))

	closeFirst()
	require.Equal(t, base+1, testutil.ToFloat64(sse))
	closeSecond()
	require.Equal(t, base, testutil.ToFloat64(sse))
}
