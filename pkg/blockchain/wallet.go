package blockchain

import (
	"context"
	"crypto/ecdsa"
	_ "embed"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/core"
)

//go:embed multisig.abi.json
var multisigABI string

// Backend is the part of an Ethereum node the wallet talks to.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Options configure a connection to a deployed wallet contract.
type Options struct {
	RPCURL     string
	PrivateKey string
	Contract   string
}

// Wallet is a client of one multi-signature wallet contract.
type Wallet struct {
	logger     *zap.Logger
	backend    Backend
	abi        abi.ABI
	address    common.Address
	signer     common.Address
	chainID    *big.Int
	contract   *bind.BoundContract
	transactor *bind.TransactOpts
}

// Dial connects to the node at opts.RPCURL and bootstraps a Wallet.
func Dial(ctx context.Context, logger *zap.Logger, opts Options) (*Wallet, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, core.NewError(core.ErrConnectivity, "networkUnreachable", "failed to dial "+opts.RPCURL, err)
	}
	w, err := NewWallet(ctx, logger, client, opts)
	if err != nil {
		client.Close()
		return nil, err
	}
	return w, nil
}

func checkOptions(opts Options) error {
	var missing []string
	if opts.RPCURL == "" {
		missing = append(missing, "RPC_URL")
	}
	if opts.PrivateKey == "" {
		missing = append(missing, "PRIVATE_KEY")
	}
	if opts.Contract == "" {
		missing = append(missing, "CONTRACT_ADDRESS")
	}
	if len(missing) > 0 {
		return core.NewError(core.ErrConfiguration, "missingConfiguration", strings.Join(missing, ", ")+" not set", nil).
			WithData(map[string]any{"Missing": strings.Join(missing, ", ")})
	}
	return nil
}

// NewWallet bootstraps a Wallet on top of an existing backend. It checks, in
// this order, that the node answers, that code is deployed at the contract
// address and that the code speaks the multisig interface.
func NewWallet(ctx context.Context, logger *zap.Logger, backend Backend, opts Options) (*Wallet, error) {
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	key, err := parsePrivateKey(opts.PrivateKey)
	if err != nil {
		return nil, core.NewError(core.ErrConfiguration, "invalidPrivateKey", "PRIVATE_KEY is not a hex secp256k1 key", err)
	}
	if !common.IsHexAddress(opts.Contract) {
		return nil, core.NewError(core.ErrConfiguration, "invalidContractAddress", "CONTRACT_ADDRESS is not an address", nil)
	}
	parsed, err := abi.JSON(strings.NewReader(multisigABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse multisig abi")
	}
	address := common.HexToAddress(opts.Contract)

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, core.NewError(core.ErrConnectivity, "networkUnreachable", "failed to get network identity", err)
	}
	logger.Info("connected to network", zap.Stringer("chain_id", chainID))

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, core.NewError(core.ErrConnectivity, "networkUnreachable", "failed to get contract code", err)
	}
	if len(code) == 0 {
		return nil, core.NewError(core.ErrDeployment, "contractNotDeployed", "no code at "+address.Hex(), nil).
			WithData(map[string]any{"Address": address.Hex()})
	}

	transactor, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, core.NewError(core.ErrConfiguration, "invalidPrivateKey", "failed to build transactor", err)
	}
	w := &Wallet{
		logger:     logger.With(zap.Stringer("contract", address)),
		backend:    backend,
		abi:        parsed,
		address:    address,
		signer:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:    chainID,
		contract:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		transactor: transactor,
	}
	if _, err := w.NumConfirmationsRequired(ctx); err != nil {
		return nil, core.NewError(core.ErrIncompatible, "contractIncompatible", "numConfirmationsRequired call failed", err)
	}
	w.logger.Info("contract connection successful", zap.Stringer("signer", w.signer))
	return w, nil
}

func parsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}

// Signer returns the address transactions are sent from.
func (w *Wallet) Signer() common.Address {
	return w.signer
}

// Address returns the wallet contract address.
func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

func (w *Wallet) call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx, From: w.signer}
	if err := w.contract.Call(opts, &out, method, args...); err != nil {
		return nil, errors.Wrap(err, method)
	}
	return out, nil
}

func (w *Wallet) callUint64(ctx context.Context, method string, args ...any) (uint64, error) {
	out, err := w.call(ctx, method, args...)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, errors.Errorf("%v: expected one output, got %d", method, len(out))
	}
	return toUint64(out[0])
}

func toUint64(v any) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return 0, errors.Errorf("unexpected type %T", v)
	}
	if !n.IsUint64() {
		return 0, errors.Errorf("%v does not fit in uint64", n)
	}
	return n.Uint64(), nil
}

func (w *Wallet) NumConfirmationsRequired(ctx context.Context) (uint64, error) {
	return w.callUint64(ctx, "numConfirmationsRequired")
}

func (w *Wallet) TransactionCount(ctx context.Context) (uint64, error) {
	return w.callUint64(ctx, "getTransactionCount")
}

func (w *Wallet) IsOwner(ctx context.Context, candidate common.Address) (bool, error) {
	out, err := w.call(ctx, "isOwner", candidate)
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, errors.Errorf("isOwner: expected one output, got %d", len(out))
	}
	isOwner, ok := out[0].(bool)
	if !ok {
		return false, errors.Errorf("isOwner: unexpected type %T", out[0])
	}
	return isOwner, nil
}

// Transaction returns the record stored under index.
func (w *Wallet) Transaction(ctx context.Context, index uint64) (core.Transaction, error) {
	out, err := w.call(ctx, "getTransaction", new(big.Int).SetUint64(index))
	if err != nil {
		return core.Transaction{}, err
	}
	if len(out) != 5 {
		return core.Transaction{}, errors.Errorf("getTransaction: expected five outputs, got %d", len(out))
	}
	confirmations, err := toUint64(out[4])
	if err != nil {
		return core.Transaction{}, errors.Wrap(err, "getTransaction: confirmations")
	}
	tx := core.Transaction{
		Index:         index,
		To:            *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Value:         *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Data:          *abi.ConvertType(out[2], new([]byte)).(*[]byte),
		Executed:      *abi.ConvertType(out[3], new(bool)).(*bool),
		Confirmations: confirmations,
	}
	return tx, nil
}

func (w *Wallet) Deposit(ctx context.Context, value *big.Int, gas uint64) (*types.Transaction, error) {
	return w.transact(ctx, "deposit", gas, value)
}

func (w *Wallet) SubmitTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte, gas uint64) (*types.Transaction, error) {
	if data == nil {
		data = []byte{}
	}
	return w.transact(ctx, "submitTransaction", gas, nil, to, value, data)
}

func (w *Wallet) ConfirmTransaction(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error) {
	return w.transact(ctx, "confirmTransaction", gas, nil, new(big.Int).SetUint64(index))
}

func (w *Wallet) ExecuteTransaction(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error) {
	return w.transact(ctx, "executeTransaction", gas, nil, new(big.Int).SetUint64(index))
}

func (w *Wallet) RevokeConfirmation(ctx context.Context, index uint64, gas uint64) (*types.Transaction, error) {
	return w.transact(ctx, "revokeConfirmation", gas, nil, new(big.Int).SetUint64(index))
}

func (w *Wallet) Initialize(ctx context.Context, cfg core.WalletConfig, gas uint64) (*types.Transaction, error) {
	return w.transact(ctx, "initialize", gas, nil, cfg.Owners, new(big.Int).SetUint64(cfg.Threshold))
}
