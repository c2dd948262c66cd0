package panel

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/blockchain"
	"github.com/arnac-io/multisig-panel/pkg/core"
)

// execute runs a pending transaction. If the contract reports that the
// threshold is not met and AutoConfirm is set, the signer confirms once and
// execution is retried once. There is no further retry.
func (c *Controller) execute(ctx context.Context, form Form) error {
	index, err := validateIndex(form)
	if err != nil {
		return err
	}
	tx, err := c.contract.Transaction(ctx, index)
	if err != nil {
		return blockchain.Classify(err)
	}
	threshold, err := c.contract.NumConfirmationsRequired(ctx)
	if err != nil {
		return blockchain.Classify(err)
	}
	logger := c.logger.With(zap.Uint64("tx_index", index))
	logger.Info("executing transaction",
		zap.Uint64("confirmations", tx.Confirmations),
		zap.Uint64("num_confirmations_required", threshold),
		zap.Bool("executed", tx.Executed))
	if tx.Executed {
		return core.NewError(core.ErrAlreadyExecuted, "alreadyExecuted", "", nil).
			WithData(map[string]any{"Index": index})
	}

	err = c.executeOnce(ctx, index)
	if err == nil || !errors.Is(err, core.ErrInsufficientConfirmations) {
		return err
	}
	if !c.options.AutoConfirm {
		return err
	}

	logger.Warn("not enough confirmations, confirming and retrying once", zap.Error(err))
	remediations.Inc()
	if err := c.confirmForExecute(ctx, index); err != nil {
		return insufficient(index, err)
	}
	if err := c.executeOnce(ctx, index); err != nil {
		// The confirm was mined, so the snapshot still follows that write.
		if rerr := c.Refresh(ctx); rerr != nil {
			logger.Warn("refresh after confirm failed", zap.Error(rerr))
		}
		return insufficient(index, err)
	}
	return nil
}

func (c *Controller) executeOnce(ctx context.Context, index uint64) error {
	tx, err := c.contract.ExecuteTransaction(ctx, index, c.options.Gas.Execute)
	if err != nil {
		return blockchain.Classify(err)
	}
	return c.complete(ctx, tx)
}

func (c *Controller) confirmForExecute(ctx context.Context, index uint64) error {
	tx, err := c.contract.ConfirmTransaction(ctx, index, c.options.Gas.Confirm)
	if err != nil {
		return blockchain.Classify(err)
	}
	c.update(func(s *State) {
		s.LastTxHash = tx.Hash().Hex()
	})
	if _, err := c.contract.WaitMined(ctx, tx); err != nil {
		return blockchain.Classify(err)
	}
	return nil
}

func insufficient(index uint64, cause error) error {
	return core.NewError(core.ErrInsufficientConfirmations, "insufficientConfirmations", "", cause).
		WithData(map[string]any{"Index": index})
}
