package dex

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	ethclientwrap "github.com/gonzalo10/uniswap-interface/internal/infrastructure/ethereum"
)

type callArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Input hexutil.Bytes   `json:"input"`
	Data  hexutil.Bytes   `json:"data"`
}

func (a callArgs) payload() []byte {
	if len(a.Input) > 0 {
		return a.Input
	}
	return a.Data
}

// fakeEth answers eth_* requests from canned contract state
type fakeEth struct {
	mu sync.Mutex

	factory    common.Address
	pairs      map[[2]common.Address]common.Address
	reserves   map[common.Address][2]*big.Int
	balances   map[common.Address]map[common.Address]*big.Int // token -> owner -> balance
	allowances map[common.Address]*big.Int                    // token -> allowance
	native     map[common.Address]*big.Int
	failCalls  bool
	sent       []*types.Transaction
}

func newFakeEth(factory common.Address) *fakeEth {
	return &fakeEth{
		factory:    factory,
		pairs:      make(map[[2]common.Address]common.Address),
		reserves:   make(map[common.Address][2]*big.Int),
		balances:   make(map[common.Address]map[common.Address]*big.Int),
		allowances: make(map[common.Address]*big.Int),
		native:     make(map[common.Address]*big.Int),
	}
}

func (f *fakeEth) addPair(tokenA, tokenB, pair common.Address, reserve0, reserve1 *big.Int) {
	t0, t1 := sortTokens(tokenA, tokenB)
	f.pairs[[2]common.Address{t0, t1}] = pair
	f.reserves[pair] = [2]*big.Int{reserve0, reserve1}
}

func (f *fakeEth) Call(args callArgs, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCalls {
		return nil, errors.New("node unavailable")
	}
	if args.To == nil {
		return nil, errors.New("missing to")
	}
	data := args.payload()
	if len(data) < 4 {
		return nil, errors.New("short calldata")
	}
	sel, rest := data[:4], data[4:]

	switch {
	case *args.To == f.factory && bytes.Equal(sel, getPairSelector):
		t0 := common.BytesToAddress(rest[0:32])
		t1 := common.BytesToAddress(rest[32:64])
		return word(new(big.Int).SetBytes(f.pairs[[2]common.Address{t0, t1}].Bytes())), nil
	case bytes.Equal(sel, getReservesSelector):
		r, ok := f.reserves[*args.To]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		out := append(word(r[0]), word(r[1])...)
		return append(out, word(big.NewInt(0))...), nil
	case bytes.Equal(sel, common.Hex2Bytes("70a08231")): // balanceOf
		owner := common.BytesToAddress(rest[0:32])
		bal := f.balances[*args.To][owner]
		if bal == nil {
			bal = big.NewInt(0)
		}
		return word(bal), nil
	case bytes.Equal(sel, common.Hex2Bytes("dd62ed3e")): // allowance
		a := f.allowances[*args.To]
		if a == nil {
			a = big.NewInt(0)
		}
		return word(a), nil
	}
	return nil, errors.New("execution reverted")
}

func (f *fakeEth) GetBalance(addr common.Address, _ gethrpc.BlockNumberOrHash) (*hexutil.Big, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCalls {
		return nil, errors.New("node unavailable")
	}
	bal := f.native[addr]
	if bal == nil {
		bal = big.NewInt(0)
	}
	return (*hexutil.Big)(bal), nil
}

func (f *fakeEth) SendRawTransaction(input hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return tx.Hash(), nil
}

func (f *fakeEth) sentTxs() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Transaction(nil), f.sent...)
}

func word(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)
	return out
}

func newInprocClient(t *testing.T, fe *fakeEth) *ethclientwrap.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	// Register under the standard "eth" namespace so methods map to eth_*
	require.NoError(t, srv.RegisterName("eth", fe))
	t.Cleanup(srv.Stop)
	return ethclientwrap.NewClient(ethclient.NewClient(gethrpc.DialInProc(srv)), big.NewInt(1))
}

// testBackend signs with a throwaway key and presets gas and nonce so that a
// write only needs eth_sendRawTransaction.
type testBackend struct {
	*ethclientwrap.Client
}

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func newTestBackend(client *ethclientwrap.Client) *testBackend {
	return &testBackend{Client: client}
}

func (b *testBackend) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(testKeyHex)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1))
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Nonce = big.NewInt(0)
	opts.GasPrice = big.NewInt(1_000_000_000)
	opts.GasLimit = 300_000
	return opts, nil
}
