package blockchain

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-faster/errors"

	"github.com/arnac-io/multisig-panel/pkg/core"
)

// Signature is the 4-byte selector prefixing a custom error payload.
type Signature [4]byte

func (s Signature) String() string {
	return hexutil.Encode(s[:])
}

// KnownError is a contract error the panel reacts to.
type KnownError struct {
	Name      string
	Kind      error
	MessageID string
}

// InsufficientConfirmations is the selector the contract reverts with when a
// transaction lacks confirmations.
var InsufficientConfirmations = Signature{0xd6, 0xbe, 0xd8, 0x73}

// knownErrors lists selectors observed from the deployed wallet. Control flow
// only looks at Kind, so a new entry needs no code change elsewhere.
var knownErrors = map[Signature]KnownError{
	InsufficientConfirmations: {
		Name:      "ConfirmationNumberNotEnough",
		Kind:      core.ErrInsufficientConfirmations,
		MessageID: "insufficientConfirmations",
	},
}

// Revert is a failed contract call together with the payload the node
// returned, if any.
type Revert struct {
	Method string
	Data   []byte
	// Reason is the Error(string) message or the name of a custom error
	// declared in the ABI.
	Reason string
	Err    error
}

func (r *Revert) Error() string {
	switch {
	case r.Reason != "":
		return fmt.Sprintf("%v reverted: %v", r.Method, r.Reason)
	case len(r.Data) > 0:
		return fmt.Sprintf("%v reverted with data %v", r.Method, hexutil.Encode(r.Data))
	case r.Err != nil:
		return fmt.Sprintf("%v failed: %v", r.Method, r.Err)
	}
	return r.Method + " failed"
}

func (r *Revert) Unwrap() error {
	return r.Err
}

// Signature returns the payload selector.
func (r *Revert) Signature() (Signature, bool) {
	var s Signature
	if len(r.Data) < len(s) {
		return s, false
	}
	copy(s[:], r.Data[:4])
	return s, true
}

// Known returns the table entry matching the payload selector.
func (r *Revert) Known() (KnownError, bool) {
	s, ok := r.Signature()
	if !ok {
		return KnownError{}, false
	}
	k, ok := knownErrors[s]
	return k, ok
}

// Is matches the kind of a known payload.
func (r *Revert) Is(target error) bool {
	k, ok := r.Known()
	return ok && k.Kind == target
}

func decodeRevert(parsed *abi.ABI, method string, err error) *Revert {
	r := &Revert{Method: method, Err: err}
	r.Data = errorData(err)
	if len(r.Data) < 4 {
		return r
	}
	if reason, uerr := abi.UnpackRevert(r.Data); uerr == nil {
		r.Reason = reason
		return r
	}
	if parsed != nil {
		for name, e := range parsed.Errors {
			if bytes.Equal(e.ID[:4], r.Data[:4]) {
				r.Reason = name
				return r
			}
		}
	}
	return r
}

func errorData(err error) []byte {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return nil
	}
	switch data := de.ErrorData().(type) {
	case string:
		b, err := hexutil.Decode(data)
		if err != nil {
			return nil
		}
		return b
	case []byte:
		return data
	}
	return nil
}

// Classify maps a failed write to the error taxonomy. A payload matching
// knownErrors takes its kind; anything else is ErrExecutionReverted with the
// most readable explanation available.
func Classify(err error) *core.Error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	var r *Revert
	if !errors.As(err, &r) {
		return core.NewError(core.ErrExecutionReverted, "transactionFailed", "", err).
			WithData(map[string]any{"Error": err.Error()})
	}
	if k, ok := r.Known(); ok {
		return core.NewError(k.Kind, k.MessageID, k.Name, r).
			WithData(map[string]any{"Name": k.Name, "Data": hexutil.Encode(r.Data)})
	}
	if r.Reason != "" {
		return core.NewError(core.ErrExecutionReverted, "revertedWithReason", r.Reason, r).
			WithData(map[string]any{"Reason": r.Reason})
	}
	if len(r.Data) > 0 {
		data := hexutil.Encode(r.Data)
		return core.NewError(core.ErrExecutionReverted, "revertedWithData", data, r).
			WithData(map[string]any{"Data": data})
	}
	return core.NewError(core.ErrExecutionReverted, "transactionFailed", "", r).
		WithData(map[string]any{"Error": r.Error()})
}
