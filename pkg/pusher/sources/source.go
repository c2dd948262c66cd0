package sources

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/panel"
)

// DeliveryFn describes a callback that receives an encoded panel state.
type DeliveryFn func(eventData []byte)

// CancelFn has to be called to unsubscribe.
type CancelFn func()

// StateSource provides a method to subscribe to panel state changes.
type StateSource interface {
	SubscribeToState(ctx context.Context, deliveryFn DeliveryFn) CancelFn
}

// Publisher is implemented by panel.Controller.
type Publisher interface {
	State() panel.State
	Subscribe(fn panel.DeliveryFn) panel.CancelFn
}

// PanelSource streams the state of a panel controller as JSON. A subscriber
// receives the current state and every change after it.
type PanelSource struct {
	logger    *zap.Logger
	publisher Publisher
}

var _ StateSource = (*PanelSource)(nil)

func NewPanelSource(logger *zap.Logger, publisher Publisher) *PanelSource {
	return &PanelSource{logger: logger, publisher: publisher}
}

func (s *PanelSource) SubscribeToState(ctx context.Context, deliveryFn DeliveryFn) CancelFn {
	// Subscribe before reading the current state so no change is missed.
	unsubscribe := s.publisher.Subscribe(func(state panel.State) {
		s.deliver(deliveryFn, state)
	})
	s.deliver(deliveryFn, s.publisher.State())
	var once sync.Once
	cancel := func() { once.Do(unsubscribe) }
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return cancel
}

func (s *PanelSource) deliver(deliveryFn DeliveryFn, state panel.State) {
	eventData, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("failed to marshal panel state", zap.Error(err))
		return
	}
	deliveryFn(eventData)
}
