package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	ethclient "github.com/gonzalo10/uniswap-interface/internal/infrastructure/ethereum"
)

// UniswapV2 ABI function signatures (keccak256 hash of function signature)
var (
	// getReserves() returns (uint112 reserve0, uint112 reserve1, uint32 blockTimestampLast)
	getReservesSelector = common.Hex2Bytes("0902f1ac")
	// getPair(address,address) returns (address)
	getPairSelector = common.Hex2Bytes("e6a43905")
)

// Mainnet Uniswap V2 deployment
var (
	UniswapV2FactoryAddress = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	UniswapV2RouterAddress  = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
)

type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// UniswapV2Client fetches pair data from a Uniswap V2 factory
type UniswapV2Client struct {
	ethClient contractCaller
	factory   common.Address
	fee       uint64 // Fee in basis points (30 = 0.3%)
	now       func() time.Time
}

// NewUniswapV2Client creates a client for the given factory. The zero address
// selects the mainnet factory.
func NewUniswapV2Client(ethClient contractCaller, factory common.Address) *UniswapV2Client {
	if factory == ethclient.ZeroAddress {
		factory = UniswapV2FactoryAddress
	}
	return &UniswapV2Client{
		ethClient: ethClient,
		factory:   factory,
		fee:       entities.UniswapV2FeeBps,
		now:       time.Now,
	}
}

// Factory returns the factory address pairs are looked up on
func (c *UniswapV2Client) Factory() common.Address {
	return c.factory
}

// GetPairAddress returns the pair address for two tokens, or the zero
// address if none is deployed
func (c *UniswapV2Client) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	// Sort tokens (Uniswap V2 convention)
	token0, token1 := sortTokens(tokenA, tokenB)

	// Encode getPair(token0, token1)
	data := make([]byte, 68)
	copy(data[0:4], getPairSelector)
	copy(data[16:36], token0.Bytes())
	copy(data[48:68], token1.Bytes())

	result, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &c.factory,
		Data: data,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get pair address: %w", err)
	}

	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("invalid getPair response length %d", len(result))
	}

	return common.BytesToAddress(result[12:32]), nil
}

// GetPair fetches the reserves of a known pair contract
func (c *UniswapV2Client) GetPair(ctx context.Context, pairAddress common.Address, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	reserves, err := c.getReserves(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	// reserves come back in token0/token1 order, so sort before assigning
	token0, token1 := tokenA, tokenB
	if bytes.Compare(token0.Address.Bytes(), token1.Address.Bytes()) > 0 {
		token0, token1 = token1, token0
	}

	pair := entities.NewPair(pairAddress, token0, token1, reserves[0], reserves[1])
	pair.Fee = c.fee
	pair.UpdatedAt = c.now().Unix()
	return pair, nil
}

// GetPairByTokens fetches pair data by token addresses
func (c *UniswapV2Client) GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	pairAddress, err := c.GetPairAddress(ctx, tokenA.Address, tokenB.Address)
	if err != nil {
		return nil, err
	}

	if pairAddress == ethclient.ZeroAddress {
		return nil, fmt.Errorf("%w: %s/%s", ErrPairNotFound, tokenA.Symbol, tokenB.Symbol)
	}

	return c.GetPair(ctx, pairAddress, tokenA, tokenB)
}

// getReserves fetches reserves from a pair
func (c *UniswapV2Client) getReserves(ctx context.Context, pairAddress common.Address) ([2]*big.Int, error) {
	result, err := c.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &pairAddress,
		Data: getReservesSelector,
	})
	if err != nil {
		return [2]*big.Int{}, fmt.Errorf("failed to get reserves: %w", err)
	}

	if len(result) < 64 {
		return [2]*big.Int{}, fmt.Errorf("invalid reserves response length %d", len(result))
	}

	reserve0 := new(big.Int).SetBytes(result[0:32])
	reserve1 := new(big.Int).SetBytes(result[32:64])

	return [2]*big.Int{reserve0, reserve1}, nil
}

// sortTokens sorts two addresses in ascending byte order (Uniswap V2 convention)
func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}
