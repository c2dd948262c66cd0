package panel

import (
	"sync"

	"github.com/arnac-io/multisig-panel/pkg/core"
)

// Action names a form of the panel.
type Action string

const (
	ActionInitialize            Action = "initialize"
	ActionDeposit               Action = "deposit"
	ActionSubmit                Action = "submitTransaction"
	ActionConfirm               Action = "confirmTransaction"
	ActionExecute               Action = "executeTransaction"
	ActionRevoke                Action = "revokeConfirmation"
	ActionCheckOwner            Action = "checkOwner"
	ActionCreateTestTransaction Action = "createTestTransaction"
)

func (a Action) String() string {
	return string(a)
}

// Names of form fields.
const (
	FieldTo           = "to"
	FieldValue        = "value"
	FieldData         = "data"
	FieldTxIndex      = "txIndex"
	FieldCheckAddress = "checkAddress"
	FieldOwners       = "owners"
	FieldThreshold    = "numConfirmationsRequired"
)

// Fields lists every form field the panel reads.
var Fields = []string{
	FieldTo, FieldValue, FieldData, FieldTxIndex,
	FieldCheckAddress, FieldOwners, FieldThreshold,
}

// Form maps field names to the raw strings typed by the operator.
type Form map[string]string

func (f Form) clone() Form {
	c := make(Form, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// State is everything the presentation layer renders.
type State struct {
	Snapshot           core.Snapshot `json:"snapshot"`
	Form               Form          `json:"form"`
	LastTxHash         string        `json:"last_tx_hash,omitempty"`
	LastSubmittedIndex *uint64       `json:"last_submitted_index,omitempty"`
	LastError          string        `json:"last_error,omitempty"`
	InFlight           bool          `json:"in_flight"`
	IsOwner            *bool         `json:"is_owner,omitempty"`
}

func (s State) clone() State {
	c := s
	c.Form = s.Form.clone()
	if s.LastSubmittedIndex != nil {
		v := *s.LastSubmittedIndex
		c.LastSubmittedIndex = &v
	}
	if s.IsOwner != nil {
		v := *s.IsOwner
		c.IsOwner = &v
	}
	return c
}

type subscriberID int64

// DeliveryFn receives a copy of the state after every change.
type DeliveryFn func(State)

// CancelFn has to be called to unsubscribe.
type CancelFn func()

// dispatcher fans state changes out to subscribers.
type dispatcher struct {
	mu          sync.RWMutex
	subscribers map[subscriberID]DeliveryFn
	currentID   subscriberID
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		subscribers: map[subscriberID]DeliveryFn{},
		currentID:   1,
	}
}

func (d *dispatcher) register(fn DeliveryFn) CancelFn {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.currentID
	d.currentID++
	d.subscribers[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subscribers, id)
	}
}

func (d *dispatcher) dispatch(s State) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, fn := range d.subscribers {
		fn(s.clone())
	}
}
