package dex

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

var owner = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestERC20BalanceOf(t *testing.T) {
	fe := newFakeEth(UniswapV2FactoryAddress)
	fe.balances[entities.DAI.Address] = map[common.Address]*big.Int{owner: big.NewInt(4242)}
	fe.native[owner] = big.NewInt(7)

	client, err := NewERC20Client(newTestBackend(newInprocClient(t, fe)))
	require.NoError(t, err)

	bal, err := client.BalanceOf(context.Background(), entities.DAI, owner)
	require.NoError(t, err)
	assert.Equal(t, "4242", bal.String())

	// native reads the account balance, not the wrapped token contract
	bal, err = client.BalanceOf(context.Background(), entities.ETH, owner)
	require.NoError(t, err)
	assert.Equal(t, "7", bal.String())

	bal, err = client.BalanceOf(context.Background(), entities.WETH, owner)
	require.NoError(t, err)
	assert.Equal(t, "0", bal.String())
}

func TestERC20Allowance(t *testing.T) {
	fe := newFakeEth(UniswapV2FactoryAddress)
	fe.allowances[entities.USDC.Address] = big.NewInt(1_000_000)

	client, err := NewERC20Client(newTestBackend(newInprocClient(t, fe)))
	require.NoError(t, err)

	a, err := client.Allowance(context.Background(), entities.USDC, owner, UniswapV2RouterAddress)
	require.NoError(t, err)
	assert.Equal(t, "1000000", a.String())

	a, err = client.Allowance(context.Background(), entities.ETH, owner, UniswapV2RouterAddress)
	require.NoError(t, err)
	assert.Zero(t, a.Sign())
}

func TestERC20ReadErrors(t *testing.T) {
	fe := newFakeEth(UniswapV2FactoryAddress)
	fe.failCalls = true

	client, err := NewERC20Client(newTestBackend(newInprocClient(t, fe)))
	require.NoError(t, err)

	_, err = client.BalanceOf(context.Background(), entities.DAI, owner)
	assert.Error(t, err)
	_, err = client.BalanceOf(context.Background(), entities.ETH, owner)
	assert.Error(t, err)
	_, err = client.Allowance(context.Background(), entities.DAI, owner, UniswapV2RouterAddress)
	assert.Error(t, err)
}

func TestERC20ApproveExactAmount(t *testing.T) {
	fe := newFakeEth(UniswapV2FactoryAddress)
	client, err := NewERC20Client(newTestBackend(newInprocClient(t, fe)))
	require.NoError(t, err)

	amount := big.NewInt(123456789)
	hash, err := client.Approve(context.Background(), entities.DAI, UniswapV2RouterAddress, amount)
	require.NoError(t, err)

	sent := fe.sentTxs()
	require.Len(t, sent, 1)
	tx := sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, entities.DAI.Address, *tx.To())

	data := tx.Data()
	require.Len(t, data, 4+32+32)
	assert.True(t, bytes.Equal(common.Hex2Bytes("095ea7b3"), data[:4]))
	assert.Equal(t, UniswapV2RouterAddress, common.BytesToAddress(data[4:36]))
	assert.Equal(t, amount.String(), new(big.Int).SetBytes(data[36:68]).String())
}

func TestERC20ApproveRejectsNative(t *testing.T) {
	fe := newFakeEth(UniswapV2FactoryAddress)
	client, err := NewERC20Client(newTestBackend(newInprocClient(t, fe)))
	require.NoError(t, err)

	_, err = client.Approve(context.Background(), entities.ETH, UniswapV2RouterAddress, big.NewInt(1))
	assert.Error(t, err)
	assert.Empty(t, fe.sentTxs())
}
