package sources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/panel"
)

type mockPublisher struct {
	state     panel.State
	fn        panel.DeliveryFn
	cancelled int
	calls     []string
}

func (m *mockPublisher) State() panel.State {
	m.calls = append(m.calls, "State")
	return m.state
}

func (m *mockPublisher) Subscribe(fn panel.DeliveryFn) panel.CancelFn {
	m.calls = append(m.calls, "Subscribe")
	m.fn = fn
	return func() { m.cancelled++ }
}

func TestPanelSource_SubscribeToState(t *testing.T) {
	publisher := &mockPublisher{state: panel.State{LastTxHash: "0x01"}}
	source := NewPanelSource(zap.NewNop(), publisher)

	var received []panel.State
	cancel := source.SubscribeToState(context.Background(), func(eventData []byte) {
		var s panel.State
		require.Nil(t, json.Unmarshal(eventData, &s))
		received = append(received, s)
	})
	publisher.fn(panel.State{LastTxHash: "0x02", InFlight: true})

	require.Equal(t, []string{"Subscribe", "State"}, publisher.calls)
	require.Len(t, received, 2)
	require.Equal(t, "0x01", received[0].LastTxHash)
	require.Equal(t, "0x02", received[1].LastTxHash)
	require.True(t, received[1].InFlight)

	cancel()
	cancel()
	require.Equal(t, 1, publisher.cancelled)
}

// racingPublisher changes its state right after a subscription is registered.
type racingPublisher struct {
	mockPublisher
}

func (m *racingPublisher) Subscribe(fn panel.DeliveryFn) panel.CancelFn {
	cancel := m.mockPublisher.Subscribe(fn)
	m.state = panel.State{LastTxHash: "0x02"}
	fn(m.state)
	return cancel
}

func TestPanelSource_ChangeDuringSubscribe(t *testing.T) {
	publisher := &racingPublisher{mockPublisher{state: panel.State{LastTxHash: "0x01"}}}
	source := NewPanelSource(zap.NewNop(), publisher)

	var received []panel.State
	cancel := source.SubscribeToState(context.Background(), func(eventData []byte) {
		var s panel.State
		require.Nil(t, json.Unmarshal(eventData, &s))
		received = append(received, s)
	})
	defer cancel()

	require.NotEmpty(t, received)
	require.Equal(t, "0x02", received[len(received)-1].LastTxHash)
}
