package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// transact sends method to the contract with an explicit gas ceiling.
// The call is simulated first with the same ceiling so a revert payload is
// returned to the caller instead of being buried in a failed receipt.
func (w *Wallet) transact(ctx context.Context, method string, gas uint64, value *big.Int, args ...any) (*types.Transaction, error) {
	input, err := w.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %v", method)
	}
	msg := ethereum.CallMsg{
		From:  w.signer,
		To:    &w.address,
		Gas:   gas,
		Value: value,
		Data:  input,
	}
	if _, err := w.backend.CallContract(ctx, msg, nil); err != nil {
		return nil, decodeRevert(&w.abi, method, err)
	}
	opts := *w.transactor
	opts.Context = ctx
	opts.GasLimit = gas
	opts.Value = value
	tx, err := w.contract.RawTransact(&opts, input)
	if err != nil {
		return nil, decodeRevert(&w.abi, method, err)
	}
	w.logger.Info("transaction submitted",
		zap.String("method", method),
		zap.Stringer("hash", tx.Hash()),
		zap.Uint64("gas", gas))
	return tx, nil
}

// WaitMined blocks until tx is included. A receipt with failed status is
// replayed against the parent block to recover the revert payload.
func (w *Wallet) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, w.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait for %v", tx.Hash())
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		w.logger.Debug("transaction included",
			zap.Stringer("hash", tx.Hash()),
			zap.Uint64("gas_used", receipt.GasUsed))
		return receipt, nil
	}
	return receipt, w.replay(ctx, tx, receipt)
}

func (w *Wallet) replay(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	method := "unknown"
	if len(tx.Data()) >= 4 {
		if m, err := w.abi.MethodById(tx.Data()[:4]); err == nil {
			method = m.Name
		}
	}
	msg := ethereum.CallMsg{
		From:  w.signer,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	var block *big.Int
	if receipt.BlockNumber != nil && receipt.BlockNumber.Sign() > 0 {
		block = new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	}
	_, err := w.backend.CallContract(ctx, msg, block)
	if err == nil {
		err = errors.Errorf("transaction %v reverted on-chain", tx.Hash())
	}
	return decodeRevert(&w.abi, method, err)
}
