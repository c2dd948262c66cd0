package blockchain

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/core"
)

type handlerFn func(args []any) ([]any, error)

// fakeBackend answers contract calls by method name. Methods of Backend that
// a test does not need are left to the embedded nil interface.
type fakeBackend struct {
	Backend

	mu       sync.Mutex
	abi      abi.ABI
	chainID  *big.Int
	chainErr error
	code     []byte
	handlers map[string]handlerFn
	calls    map[string]int
	sent     []*types.Transaction
	status   uint64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	parsed, err := abi.JSON(strings.NewReader(multisigABI))
	require.Nil(t, err)
	return &fakeBackend{
		abi:     parsed,
		chainID: big.NewInt(412346),
		code:    []byte{0x60, 0x80},
		handlers: map[string]handlerFn{
			"numConfirmationsRequired": func(args []any) ([]any, error) {
				return []any{big.NewInt(2)}, nil
			},
		},
		calls:  map[string]int{},
		status: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, f.chainErr
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls[m.Name]++
	handler, ok := f.handlers[m.Name]
	f.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("%v is not implemented", m.Name)
	}
	args, err := m.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	outs, err := handler(args)
	if err != nil {
		return nil, err
	}
	return m.Outputs.Pack(outs...)
}

func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(10)}, nil
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.sent {
		if tx.Hash() == hash {
			return &types.Receipt{TxHash: hash, Status: f.status, BlockNumber: big.NewInt(11)}, nil
		}
	}
	return nil, ethereum.NotFound
}

// dataError mimics the JSON-RPC error a node returns for a reverted call.
type dataError struct {
	data string
}

func (e dataError) Error() string          { return "execution reverted" }
func (e dataError) ErrorData() interface{} { return e.data }

func testOptions(t *testing.T) Options {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	return Options{
		RPCURL:     "http://127.0.0.1:8547",
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		Contract:   "0x85bd1a76e588e2539fd450afd6255806e7026049",
	}
}

func TestNewWallet(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(o *Options, f *fakeBackend)
		wantKind error
	}{
		{
			name:   "ready",
			modify: func(o *Options, f *fakeBackend) {},
		},
		{
			name:     "missing rpc url",
			modify:   func(o *Options, f *fakeBackend) { o.RPCURL = "" },
			wantKind: core.ErrConfiguration,
		},
		{
			name:     "missing private key",
			modify:   func(o *Options, f *fakeBackend) { o.PrivateKey = "" },
			wantKind: core.ErrConfiguration,
		},
		{
			name:     "malformed private key",
			modify:   func(o *Options, f *fakeBackend) { o.PrivateKey = "0x1234" },
			wantKind: core.ErrConfiguration,
		},
		{
			name:     "malformed contract address",
			modify:   func(o *Options, f *fakeBackend) { o.Contract = "0xdeadbeef" },
			wantKind: core.ErrConfiguration,
		},
		{
			name:     "node unreachable",
			modify:   func(o *Options, f *fakeBackend) { f.chainErr = errors.New("connection refused") },
			wantKind: core.ErrConnectivity,
		},
		{
			name:     "no code at address",
			modify:   func(o *Options, f *fakeBackend) { f.code = nil },
			wantKind: core.ErrDeployment,
		},
		{
			name:     "abi mismatch",
			modify:   func(o *Options, f *fakeBackend) { delete(f.handlers, "numConfirmationsRequired") },
			wantKind: core.ErrIncompatible,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			backend := newFakeBackend(t)
			tt.modify(&opts, backend)

			w, err := NewWallet(context.Background(), zap.NewNop(), backend, opts)
			if tt.wantKind != nil {
				require.ErrorIs(t, err, tt.wantKind)
				require.Nil(t, w)
				return
			}
			require.Nil(t, err)
			key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
			require.Nil(t, err)
			require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Signer())
			require.Equal(t, common.HexToAddress(opts.Contract), w.Address())
			require.Equal(t, int64(412346), w.ChainID().Int64())
		})
	}
}

func newTestWallet(t *testing.T, backend *fakeBackend) *Wallet {
	w, err := NewWallet(context.Background(), zap.NewNop(), backend, testOptions(t))
	require.Nil(t, err)
	return w
}

func TestWallet_Reads(t *testing.T) {
	backend := newFakeBackend(t)
	owner := common.HexToAddress("0xa6e41ffd769491a42a6e5ce453259b93983a22ef")
	backend.handlers["getTransactionCount"] = func(args []any) ([]any, error) {
		return []any{big.NewInt(3)}, nil
	}
	backend.handlers["isOwner"] = func(args []any) ([]any, error) {
		return []any{args[0].(common.Address) == owner}, nil
	}
	backend.handlers["getTransaction"] = func(args []any) ([]any, error) {
		require.Equal(t, int64(1), args[0].(*big.Int).Int64())
		return []any{owner, big.NewInt(10_000), []byte{0xca, 0xfe}, true, big.NewInt(2)}, nil
	}
	w := newTestWallet(t, backend)
	ctx := context.Background()

	threshold, err := w.NumConfirmationsRequired(ctx)
	require.Nil(t, err)
	require.Equal(t, uint64(2), threshold)

	count, err := w.TransactionCount(ctx)
	require.Nil(t, err)
	require.Equal(t, uint64(3), count)

	isOwner, err := w.IsOwner(ctx, owner)
	require.Nil(t, err)
	require.True(t, isOwner)
	isOwner, err = w.IsOwner(ctx, common.HexToAddress("0x01"))
	require.Nil(t, err)
	require.False(t, isOwner)

	tx, err := w.Transaction(ctx, 1)
	require.Nil(t, err)
	require.Equal(t, core.Transaction{
		Index:         1,
		To:            owner,
		Value:         big.NewInt(10_000),
		Data:          []byte{0xca, 0xfe},
		Executed:      true,
		Confirmations: 2,
	}, tx)
}

func TestWallet_DepositAndWait(t *testing.T) {
	backend := newFakeBackend(t)
	backend.handlers["deposit"] = func(args []any) ([]any, error) {
		return nil, nil
	}
	w := newTestWallet(t, backend)
	ctx := context.Background()

	value := big.NewInt(100_000_000_000_000_000)
	tx, err := w.Deposit(ctx, value, 100_000)
	require.Nil(t, err)
	require.Len(t, backend.sent, 1)
	require.Equal(t, uint64(100_000), tx.Gas())
	require.Equal(t, value, tx.Value())
	require.Equal(t, w.Address(), *tx.To())

	receipt, err := w.WaitMined(ctx, tx)
	require.Nil(t, err)
	require.Equal(t, tx.Hash(), receipt.TxHash)
}

func TestWallet_ExecutePreflightRevert(t *testing.T) {
	backend := newFakeBackend(t)
	backend.handlers["executeTransaction"] = func(args []any) ([]any, error) {
		return nil, dataError{data: "0xd6bed873"}
	}
	w := newTestWallet(t, backend)

	_, err := w.ExecuteTransaction(context.Background(), 0, 5_000_000)
	require.NotNil(t, err)
	require.Empty(t, backend.sent)

	var r *Revert
	require.True(t, errors.As(err, &r))
	require.Equal(t, "executeTransaction", r.Method)
	sig, ok := r.Signature()
	require.True(t, ok)
	require.Equal(t, InsufficientConfirmations, sig)
	require.ErrorIs(t, err, core.ErrInsufficientConfirmations)
	require.ErrorIs(t, Classify(err), core.ErrInsufficientConfirmations)
}

func TestWallet_WaitMinedReplaysFailedReceipt(t *testing.T) {
	backend := newFakeBackend(t)
	calls := 0
	backend.handlers["confirmTransaction"] = func(args []any) ([]any, error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		return nil, dataError{data: hexutil.Encode(revertPayload(t, "tx already confirmed"))}
	}
	backend.status = types.ReceiptStatusFailed
	w := newTestWallet(t, backend)
	ctx := context.Background()

	tx, err := w.ConfirmTransaction(ctx, 4, 1_000_000)
	require.Nil(t, err)
	_, err = w.WaitMined(ctx, tx)
	require.NotNil(t, err)

	var r *Revert
	require.True(t, errors.As(err, &r))
	require.Equal(t, "confirmTransaction", r.Method)
	require.Equal(t, "tx already confirmed", r.Reason)
	require.Equal(t, 2, calls)
}
