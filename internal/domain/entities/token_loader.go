package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenInfo is a single entry of a token list document
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	ChainID  int64  `json:"chainId"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// TokenList is the token list document served by the remote registry
type TokenList struct {
	Name   string      `json:"name"`
	Tokens []TokenInfo `json:"tokens"`
}

// ParseTokenList decodes a token list document
func ParseTokenList(data []byte) (*TokenList, error) {
	var list TokenList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse token list: %w", err)
	}
	return &list, nil
}

// TokenRegistry holds loaded tokens indexed by address and symbol.
// It is built once and only read afterwards.
type TokenRegistry struct {
	byAddress map[common.Address]Token
	bySymbol  map[string]Token
	all       []Token
}

// NewTokenRegistry creates a new token registry
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byAddress: make(map[common.Address]Token),
		bySymbol:  make(map[string]Token),
		all:       make([]Token, 0),
	}
}

// NewRegistryFromList builds a registry from a token list, keeping only the
// tokens of chainID. The native token is synthesized from the wrapped token
// and registered first.
func NewRegistryFromList(list *TokenList, chainID int64, wrapped Token) *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(NativeToken(wrapped))
	if list == nil {
		return r
	}

	r.registerList(list, chainID)
	return r
}

// ReadTokenList reads a token list JSON file
func ReadTokenList(path string) (*TokenList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list: %w", err)
	}
	return ParseTokenList(data)
}

func (r *TokenRegistry) registerList(list *TokenList, chainID int64) {
	for _, ti := range list.Tokens {
		if ti.ChainID != chainID || !common.IsHexAddress(ti.Address) {
			continue
		}
		r.Register(Token{
			Address:  common.HexToAddress(ti.Address),
			Symbol:   ti.Symbol,
			Name:     ti.Name,
			Decimals: ti.Decimals,
			ChainID:  ti.ChainID,
		})
	}
}

// Register adds a token to the registry. The first token registered under a
// symbol wins, and the native token is never indexed by address since it
// shares one with its wrapped counterpart.
func (r *TokenRegistry) Register(token Token) {
	if _, exists := r.bySymbol[token.Symbol]; exists {
		return
	}
	if !token.Native {
		r.byAddress[token.Address] = token
	}
	r.bySymbol[token.Symbol] = token
	r.all = append(r.all, token)
}

// GetByAddress returns a token by its address
func (r *TokenRegistry) GetByAddress(addr common.Address) (Token, bool) {
	token, ok := r.byAddress[addr]
	return token, ok
}

// GetBySymbol returns a token by its symbol
func (r *TokenRegistry) GetBySymbol(symbol string) (Token, bool) {
	token, ok := r.bySymbol[symbol]
	return token, ok
}

// Resolve looks a token up by hex address or by symbol
func (r *TokenRegistry) Resolve(ref string) (Token, bool) {
	ref = strings.TrimSpace(ref)
	if common.IsHexAddress(ref) {
		return r.GetByAddress(common.HexToAddress(ref))
	}
	if token, ok := r.GetBySymbol(ref); ok {
		return token, true
	}
	return r.GetBySymbol(strings.ToUpper(ref))
}

// GetAll returns all registered tokens
func (r *TokenRegistry) GetAll() []Token {
	return r.all
}

// Count returns the number of registered tokens
func (r *TokenRegistry) Count() int {
	return len(r.all)
}

// DefaultRegistry returns a registry with hardcoded default tokens
// Use this as fallback if the token list is not available
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(ETH)
	r.Register(WETH)
	r.Register(DAI)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(COMP)
	r.Register(MKR)
	r.Register(LINK)
	return r
}

// FallbackRegistry returns the built-in universe for the wrapped token's
// chain. Only mainnet carries the full default set.
func FallbackRegistry(wrapped Token) *TokenRegistry {
	if wrapped.ChainID == MainnetChainID {
		return DefaultRegistry()
	}
	r := NewRegistryFromList(nil, wrapped.ChainID, wrapped)
	r.Register(wrapped)
	return r
}
