package panel

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/arnac-io/multisig-panel/pkg/blockchain"
	"github.com/arnac-io/multisig-panel/pkg/core"
)

// Contract is the wallet client the controller drives.
type Contract interface {
	Signer() common.Address
	Address() common.Address
	ChainID() *big.Int

	NumConfirmationsRequired(ctx context.Context) (uint64, error)
	TransactionCount(ctx context.Context) (uint64, error)
	IsOwner(ctx context.Context, candidate common.Address) (bool, error)
	Transaction(ctx context.Context, index uint64) (core.Transaction, error)

	Initialize(ctx context.Context, cfg core.WalletConfig, gas uint64) (*types.Transaction, error)
	Deposit(ctx context.Context, value *big.Int, gas uint64) (*types.Transaction, error)
	SubmitTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte, gas uint64) (*types.Transaction, error)
	ConfirmTransaction(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error)
	ExecuteTransaction(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error)
	RevokeConfirmation(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Compile-time check for Wallet.
var _ Contract = (*blockchain.Wallet)(nil)
