package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrNoSigner is returned for write operations when no private key is configured.
var ErrNoSigner = errors.New("no signing key configured")

// Client wraps the go-ethereum client with the process's signing account
type Client struct {
	client  *ethclient.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
	account common.Address
	mu      sync.RWMutex
}

// Dial connects to rpcURL and reads the chain id
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	return NewClient(client, chainID), nil
}

// NewClient wraps an already connected client
func NewClient(client *ethclient.Client, chainID *big.Int) *Client {
	return &Client{
		client:  client,
		chainID: chainID,
	}
}

// UseKey installs the hex-encoded private key used for approvals and swaps.
func (c *Client) UseKey(hexKey string) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.account = crypto.PubkeyToAddress(key.PublicKey)
	return nil
}

// Account returns the signing account
func (c *Client) Account() (common.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == nil {
		return common.Address{}, ErrNoSigner
	}
	return c.account, nil
}

// Transactor returns fresh transaction options for one write. Gas and nonce
// are left for the binding to fill in from the node.
func (c *Client) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == nil {
		return nil, ErrNoSigner
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// Backend exposes the underlying client for contract bindings
func (c *Client) Backend() bind.ContractBackend {
	return c.client
}

// Close closes the underlying client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Close()
}

// ChainID returns the chain ID
func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// CallContract executes a contract call
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.CallContract(ctx, msg, nil)
}

// BalanceAt returns the native balance of account at the latest block
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.BalanceAt(ctx, account, nil)
}

// BlockNumber returns the current block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.BlockNumber(ctx)
}

// Common Ethereum addresses
var (
	ZeroAddress = common.HexToAddress("0x0000000000000000000000000000000000000000")
)
