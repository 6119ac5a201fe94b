package entities

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTokenList = `{
  "name": "Sample",
  "tokens": [
    {"chainId": 1, "address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "symbol": "WETH", "name": "Wrapped Ether", "decimals": 18},
    {"chainId": 1, "address": "0x6B175474E89094C44Da98b954EedeAC495271d0F", "symbol": "DAI", "name": "Dai Stablecoin", "decimals": 18},
    {"chainId": 1, "address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "symbol": "USDC", "name": "USD Coin", "decimals": 6},
    {"chainId": 3, "address": "0xaD6D458402F60fD3Bd25163575031ACDce07538D", "symbol": "DAI", "name": "Ropsten Dai", "decimals": 18},
    {"chainId": 1, "address": "not-an-address", "symbol": "BAD", "name": "Broken", "decimals": 18}
  ]
}`

func TestNewRegistryFromList(t *testing.T) {
	list, err := ParseTokenList([]byte(sampleTokenList))
	require.NoError(t, err)
	assert.Equal(t, "Sample", list.Name)

	r := NewRegistryFromList(list, MainnetChainID, WETH)
	assert.Equal(t, 4, r.Count())

	native, ok := r.GetBySymbol(NativeSymbol)
	require.True(t, ok)
	assert.True(t, native.IsNative())
	assert.Equal(t, native, r.GetAll()[0])

	dai, ok := r.GetBySymbol("DAI")
	require.True(t, ok)
	assert.Equal(t, DAI.Address, dai.Address)

	_, ok = r.GetBySymbol("BAD")
	assert.False(t, ok)
}

func TestRegistryResolve(t *testing.T) {
	r := DefaultRegistry()

	tok, ok := r.Resolve("usdc")
	require.True(t, ok)
	assert.Equal(t, USDC.Address, tok.Address)

	tok, ok = r.Resolve(DAI.Address.Hex())
	require.True(t, ok)
	assert.Equal(t, "DAI", tok.Symbol)

	// the shared address resolves to the wrapped token, never the native one
	tok, ok = r.Resolve(WETH.Address.Hex())
	require.True(t, ok)
	assert.False(t, tok.IsNative())

	tok, ok = r.Resolve("ETH")
	require.True(t, ok)
	assert.True(t, tok.IsNative())

	_, ok = r.Resolve(common.HexToAddress("0x1234").Hex())
	assert.False(t, ok)
	_, ok = r.Resolve("NOPE")
	assert.False(t, ok)
}

func TestReadTokenList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleTokenList), 0o600))

	list, err := ReadTokenList(path)
	require.NoError(t, err)
	assert.Equal(t, 4, NewRegistryFromList(list, MainnetChainID, WETH).Count())

	_, err = ReadTokenList(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseTokenListRejectsGarbage(t *testing.T) {
	_, err := ParseTokenList([]byte("{not json"))
	assert.Error(t, err)
}

func TestWrappedNative(t *testing.T) {
	tests := []struct {
		chainID int64
		address string
	}{
		{MainnetChainID, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
		{3, "0xc778417E063141139Fce010982780140Aa0cD5Ab"},
		{5, "0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6"},
		{11155111, "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"},
	}

	for _, tt := range tests {
		wrapped, ok := WrappedNative(tt.chainID)
		require.True(t, ok, "chain %d", tt.chainID)
		assert.Equal(t, common.HexToAddress(tt.address), wrapped.Address)
		assert.Equal(t, tt.chainID, wrapped.ChainID)
		assert.Equal(t, "WETH", wrapped.Symbol)
		assert.Equal(t, uint8(18), wrapped.Decimals)
	}

	_, ok := WrappedNative(137)
	assert.False(t, ok)
}

func TestFallbackRegistry(t *testing.T) {
	assert.Equal(t, DefaultRegistry().Count(), FallbackRegistry(WETH).Count())

	sepolia, ok := WrappedNative(11155111)
	require.True(t, ok)
	r := FallbackRegistry(sepolia)
	assert.Equal(t, 2, r.Count())

	native, ok := r.GetBySymbol(NativeSymbol)
	require.True(t, ok)
	assert.True(t, native.IsNative())
	assert.Equal(t, sepolia.Address, native.Address)

	_, ok = r.GetBySymbol("DAI")
	assert.False(t, ok)
}
