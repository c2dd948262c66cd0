package panel

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/internal/config"
	"github.com/arnac-io/multisig-panel/internal/g"
	"github.com/arnac-io/multisig-panel/pkg/blockchain"
	"github.com/arnac-io/multisig-panel/pkg/core"
	"github.com/arnac-io/multisig-panel/pkg/sentry"
)

// testTransferValue is what createTestTransaction sends back to the signer.
var testTransferValue = big.NewInt(10_000_000_000_000_000) // 0.01 ether

type Options struct {
	Gas config.GasLimits
	// AutoConfirm enables the single confirm-then-retry on execute.
	AutoConfirm bool
}

// Controller owns the panel state and runs at most one action at a time.
type Controller struct {
	logger   *zap.Logger
	contract Contract
	options  Options

	busy atomic.Bool

	mu    sync.RWMutex
	state State

	dispatcher *dispatcher
}

func NewController(logger *zap.Logger, contract Contract, options Options) *Controller {
	return &Controller{
		logger:   logger,
		contract: contract,
		options:  options,
		state: State{
			Snapshot: core.Snapshot{
				Contract: contract.Address(),
				Signer:   contract.Signer(),
				ChainID:  contract.ChainID(),
			},
			Form: Form{},
		},
		dispatcher: newDispatcher(),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Subscribe registers fn to be called with the state after every change.
func (c *Controller) Subscribe(fn DeliveryFn) CancelFn {
	return c.dispatcher.register(fn)
}

func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	s := c.state.clone()
	c.mu.Unlock()
	c.dispatcher.dispatch(s)
}

// Refresh re-reads the threshold and the transaction count.
func (c *Controller) Refresh(ctx context.Context) error {
	var threshold, count uint64
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		v, err := c.contract.NumConfirmationsRequired(ctx)
		threshold = v
		return err
	})
	p.Go(func(ctx context.Context) error {
		v, err := c.contract.TransactionCount(ctx)
		count = v
		return err
	})
	if err := p.Wait(); err != nil {
		return core.NewError(core.ErrConnectivity, "refreshFailed", "failed to fetch contract data", err)
	}
	c.update(func(s *State) {
		s.Snapshot.Threshold = threshold
		s.Snapshot.TransactionCount = count
	})
	c.logger.Debug("contract state updated",
		zap.Uint64("num_confirmations", threshold),
		zap.Uint64("transaction_count", count))
	return nil
}

// Do runs one action. The returned error is also stored, localized for lang,
// as LastError. Only one action runs at a time; a concurrent call fails with
// core.ErrActionInFlight and leaves the state untouched.
func (c *Controller) Do(ctx context.Context, lang string, action Action, form Form) error {
	if !c.busy.CompareAndSwap(false, true) {
		return core.NewError(core.ErrActionInFlight, "actionInFlight", action.String(), nil)
	}
	defer c.busy.Store(false)

	start := time.Now()
	c.update(func(s *State) {
		s.InFlight = true
		s.LastError = ""
		s.LastTxHash = ""
		for k, v := range form {
			s.Form[k] = v
		}
	})
	err := c.dispatch(ctx, action, form)
	c.update(func(s *State) {
		s.InFlight = false
		if err != nil {
			s.LastError = Message(lang, err)
		}
	})

	observeAction(action, err, time.Since(start))
	logger := c.logger.With(zap.String("action", action.String()))
	switch {
	case err == nil:
		logger.Info("action succeeded")
	case core.IsLocal(err):
		logger.Info("action rejected", zap.Error(err))
	default:
		logger.Error("action failed", zap.Error(err))
		sentry.Send("panel action failed", sentry.SentryInfoData{
			"action": action.String(),
			"error":  err.Error(),
		}, sentry.LevelError)
	}
	return err
}

func (c *Controller) dispatch(ctx context.Context, action Action, form Form) error {
	switch action {
	case ActionInitialize:
		return c.initialize(ctx, form)
	case ActionDeposit:
		return c.deposit(ctx, form)
	case ActionSubmit:
		return c.submit(ctx, form)
	case ActionConfirm:
		return c.confirm(ctx, form)
	case ActionExecute:
		return c.execute(ctx, form)
	case ActionRevoke:
		return c.revoke(ctx, form)
	case ActionCheckOwner:
		return c.checkOwner(ctx, form)
	case ActionCreateTestTransaction:
		return c.createTestTransaction(ctx)
	}
	return core.Validation("unknownAction", action.String())
}

// complete waits for tx, clears the form and refreshes the snapshot.
func (c *Controller) complete(ctx context.Context, tx *types.Transaction) error {
	c.update(func(s *State) {
		s.LastTxHash = tx.Hash().Hex()
	})
	if _, err := c.contract.WaitMined(ctx, tx); err != nil {
		return blockchain.Classify(err)
	}
	c.update(func(s *State) {
		s.Form = Form{}
	})
	return c.Refresh(ctx)
}

func (c *Controller) initialize(ctx context.Context, form Form) error {
	cfg, err := validateInitialize(form)
	if err != nil {
		return err
	}
	tx, err := c.contract.Initialize(ctx, cfg, c.options.Gas.Initialize)
	if err != nil {
		return blockchain.Classify(err)
	}
	return c.complete(ctx, tx)
}

func (c *Controller) deposit(ctx context.Context, form Form) error {
	value, err := validateDeposit(form)
	if err != nil {
		return err
	}
	tx, err := c.contract.Deposit(ctx, value, c.options.Gas.Deposit)
	if err != nil {
		return blockchain.Classify(err)
	}
	return c.complete(ctx, tx)
}

func (c *Controller) submit(ctx context.Context, form Form) error {
	sub, err := validateSubmit(form)
	if err != nil {
		return err
	}
	c.logger.Info("submitting transaction",
		zap.Stringer("to", sub.to),
		zap.Stringer("value", sub.value))
	tx, err := c.contract.SubmitTransaction(ctx, sub.to, sub.value, sub.data, c.options.Gas.Submit)
	if err != nil {
		return blockchain.Classify(err)
	}
	if err := c.complete(ctx, tx); err != nil {
		return err
	}
	c.markLastSubmitted()
	return nil
}

// markLastSubmitted records the index of the transaction just submitted. The
// contract appends, so it is the refreshed count minus one.
func (c *Controller) markLastSubmitted() uint64 {
	var index uint64
	c.update(func(s *State) {
		if s.Snapshot.TransactionCount > 0 {
			index = s.Snapshot.TransactionCount - 1
		}
		s.LastSubmittedIndex = g.Pointer(index)
	})
	return index
}

func (c *Controller) confirm(ctx context.Context, form Form) error {
	index, err := validateIndex(form)
	if err != nil {
		return err
	}
	tx, err := c.contract.ConfirmTransaction(ctx, index, c.options.Gas.Confirm)
	if err != nil {
		return blockchain.Classify(err)
	}
	return c.complete(ctx, tx)
}

func (c *Controller) revoke(ctx context.Context, form Form) error {
	index, err := validateIndex(form)
	if err != nil {
		return err
	}
	tx, err := c.contract.RevokeConfirmation(ctx, index, c.options.Gas.Revoke)
	if err != nil {
		return blockchain.Classify(err)
	}
	return c.complete(ctx, tx)
}

func (c *Controller) checkOwner(ctx context.Context, form Form) error {
	candidate, err := validateCheckOwner(form)
	if err != nil {
		return err
	}
	isOwner, err := c.contract.IsOwner(ctx, candidate)
	if err != nil {
		return blockchain.Classify(err)
	}
	c.update(func(s *State) {
		s.IsOwner = g.Pointer(isOwner)
	})
	c.logger.Info("owner check", zap.Stringer("address", candidate), zap.Bool("is_owner", isOwner))
	return nil
}

// createTestTransaction proposes a transfer of testTransferValue back to the
// signer and confirms it, leaving its index in the txIndex field.
func (c *Controller) createTestTransaction(ctx context.Context) error {
	tx, err := c.contract.SubmitTransaction(ctx, c.contract.Signer(), testTransferValue, []byte{}, c.options.Gas.Submit)
	if err != nil {
		return blockchain.Classify(err)
	}
	if err := c.complete(ctx, tx); err != nil {
		return err
	}
	index := c.markLastSubmitted()
	confirmTx, err := c.contract.ConfirmTransaction(ctx, index, c.options.Gas.Confirm)
	if err != nil {
		return blockchain.Classify(err)
	}
	if err := c.complete(ctx, confirmTx); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Form = Form{FieldTxIndex: strconv.FormatUint(index, 10)}
	})
	return nil
}
