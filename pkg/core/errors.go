package core

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Bootstrap kinds. Any of them blocks the panel from operating.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrConnectivity  = errors.New("connectivity error")
	ErrDeployment    = errors.New("deployment error")
	ErrIncompatible  = errors.New("incompatible contract")
)

// ErrValidation is returned before anything reaches the network.
var ErrValidation = errors.New("validation error")

// Post-submission kinds.
var (
	ErrAlreadyExecuted           = errors.New("transaction already executed")
	ErrInsufficientConfirmations = errors.New("insufficient confirmations")
	ErrExecutionReverted         = errors.New("execution reverted")
)

var ErrActionInFlight = errors.New("another action is in flight")

// Error is a classified failure. Kind is one of the sentinels above, MessageID
// and Data are used to render a localized message.
type Error struct {
	Kind      error
	MessageID string
	Detail    string
	Data      map[string]any
	Err       error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%v: %v", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// NewError classifies cause under kind.
func NewError(kind error, messageID, detail string, cause error) *Error {
	return &Error{
		Kind:      kind,
		MessageID: messageID,
		Detail:    detail,
		Err:       cause,
	}
}

// WithData attaches template data used by localized messages.
func (e *Error) WithData(data map[string]any) *Error {
	e.Data = data
	return e
}

// Validation returns an ErrValidation failure.
func Validation(messageID, detail string) *Error {
	return NewError(ErrValidation, messageID, detail, nil)
}

// KindOf returns the sentinel kind of err, or nil when err is unclassified.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range []error{
		ErrConfiguration, ErrConnectivity, ErrDeployment, ErrIncompatible,
		ErrValidation, ErrAlreadyExecuted, ErrInsufficientConfirmations,
		ErrExecutionReverted, ErrActionInFlight,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsLocal reports whether err never left the process.
func IsLocal(err error) bool {
	kind := KindOf(err)
	return kind == ErrValidation || kind == ErrActionInFlight
}
