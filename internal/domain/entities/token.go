package entities

import "github.com/ethereum/go-ethereum/common"

// MainnetChainID is the Ethereum mainnet chain id.
const MainnetChainID int64 = 1

// NativeSymbol is the symbol of the synthesized native asset token.
const NativeSymbol = "ETH"

type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
	ChainID  int64          `json:"chainId"`
	// Native marks the chain's native asset. It shares the wrapped token's
	// address for routing but is never moved through a token contract.
	Native bool `json:"native,omitempty"`
}

// IsNative reports whether balance and transfer use native-asset semantics.
func (t Token) IsNative() bool {
	return t.Native
}

// SameAs reports whether both tokens route through the same contract address.
// The native token and its wrapped counterpart are the same for routing.
func (t Token) SameAs(other Token) bool {
	return t.Address == other.Address
}

// NativeToken synthesizes the native asset from its wrapped counterpart.
func NativeToken(wrapped Token) Token {
	return Token{
		Address:  wrapped.Address,
		Symbol:   NativeSymbol,
		Name:     "Ethereum",
		Decimals: wrapped.Decimals,
		ChainID:  wrapped.ChainID,
		Native:   true,
	}
}

// WETH is the canonical Wrapped Ether token on Ethereum mainnet
var WETH = Token{
	Address:  common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	Symbol:   "WETH",
	Name:     "Wrapped Ether",
	Decimals: 18,
	ChainID:  MainnetChainID,
}

// ETH is the native asset on Ethereum mainnet
var ETH = NativeToken(WETH)

// wrappedNative holds the canonical WETH deployment per chain id.
var wrappedNative = map[int64]common.Address{
	MainnetChainID: WETH.Address,
	3:              common.HexToAddress("0xc778417E063141139Fce010982780140Aa0cD5Ab"),
	4:              common.HexToAddress("0xc778417E063141139Fce010982780140Aa0cD5Ab"),
	5:              common.HexToAddress("0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6"),
	42:             common.HexToAddress("0xd0A1E359811322d97991E03f863a0C30C2cF029C"),
	11155111:       common.HexToAddress("0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"),
}

// WrappedNative returns the wrapped native token of a chain. The second
// result is false when the chain has no known deployment.
func WrappedNative(chainID int64) (Token, bool) {
	addr, ok := wrappedNative[chainID]
	if !ok {
		return Token{}, false
	}
	return Token{
		Address:  addr,
		Symbol:   "WETH",
		Name:     "Wrapped Ether",
		Decimals: 18,
		ChainID:  chainID,
	}, true
}

// USDC is USD Coin on Ethereum mainnet
var USDC = Token{
	Address:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	Symbol:   "USDC",
	Name:     "USD Coin",
	Decimals: 6,
	ChainID:  MainnetChainID,
}

// USDT is Tether USD on Ethereum mainnet
var USDT = Token{
	Address:  common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
	Symbol:   "USDT",
	Name:     "Tether USD",
	Decimals: 6,
	ChainID:  MainnetChainID,
}

// DAI is Dai Stablecoin on Ethereum mainnet
var DAI = Token{
	Address:  common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
	Symbol:   "DAI",
	Name:     "Dai Stablecoin",
	Decimals: 18,
	ChainID:  MainnetChainID,
}

var COMP = Token{
	Address:  common.HexToAddress("0xc00e94Cb662C3520282E6f5717214004A7f26888"),
	Symbol:   "COMP",
	Name:     "Compound",
	Decimals: 18,
	ChainID:  MainnetChainID,
}

var MKR = Token{
	Address:  common.HexToAddress("0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2"),
	Symbol:   "MKR",
	Name:     "Maker",
	Decimals: 18,
	ChainID:  MainnetChainID,
}

var LINK = Token{
	Address:  common.HexToAddress("0x514910771AF9Ca656af840dff83E8264EcF986CA"),
	Symbol:   "LINK",
	Name:     "ChainLink Token",
	Decimals: 18,
	ChainID:  MainnetChainID,
}

// DefaultBaseSymbols is the allow-list of high-liquidity tokens used as
// routing intermediates.
var DefaultBaseSymbols = []string{"DAI", "USDC", "USDT", "COMP", "ETH", "MKR", "LINK"}
