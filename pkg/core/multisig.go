package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is a proposal stored by the wallet contract.
// Once Executed is true the record never changes again.
type Transaction struct {
	Index         uint64         `json:"index"`
	To            common.Address `json:"to"`
	Value         *big.Int       `json:"value"`
	Data          hexutil.Bytes  `json:"data"`
	Executed      bool           `json:"executed"`
	Confirmations uint64         `json:"confirmations"`
}

// WalletConfig is the owner set fixed by initialize.
type WalletConfig struct {
	Owners    []common.Address
	Threshold uint64
}

// Snapshot is what the panel shows about the wallet.
type Snapshot struct {
	Contract         common.Address `json:"contract"`
	Signer           common.Address `json:"signer"`
	ChainID          *big.Int       `json:"chain_id"`
	Threshold        uint64         `json:"threshold"`
	TransactionCount uint64         `json:"transaction_count"`
}
