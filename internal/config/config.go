// Package config loads service settings from defaults, an optional TOML file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

type Config struct {
	// Provider
	RPCURL     string
	ChainID    int64
	PrivateKey string

	// Contracts, zero means the mainnet deployment
	RouterAddress  common.Address
	FactoryAddress common.Address

	// Token universe
	TokenListURI  string
	TokenListFile string
	TokenListTTL  time.Duration
	RedisAddr     string
	RedisPassword string

	// Quoting and execution
	BaseTokens   []string
	Slippage     entities.Percent
	Deadline     time.Duration
	PollInterval time.Duration

	// HTTP
	Port           string
	RatePerMinute  int
	AllowedOrigins []string

	// Logging
	LogLevel  string
	LogPretty bool
}

// fileConfig is the TOML layout. Secrets are only read from the environment.
type fileConfig struct {
	RPCURL          string   `toml:"rpc_url"`
	ChainID         int64    `toml:"chain_id"`
	RouterAddress   string   `toml:"router_address"`
	FactoryAddress  string   `toml:"factory_address"`
	RedisAddr       string   `toml:"redis_addr"`
	BaseTokens      []string `toml:"base_tokens"`
	SlippagePercent string   `toml:"slippage_percent"`
	Deadline        string   `toml:"deadline"`
	PollInterval    string   `toml:"poll_interval"`
	Port            string   `toml:"port"`
	RatePerMinute   int      `toml:"rate_per_minute"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	LogLevel        string   `toml:"log_level"`
	LogPretty       *bool    `toml:"log_pretty"`

	TokenList struct {
		URI  string `toml:"uri"`
		File string `toml:"file"`
		TTL  string `toml:"ttl"`
	} `toml:"token_list"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		RPCURL:         "https://eth.llamarpc.com",
		ChainID:        entities.MainnetChainID,
		TokenListURI:   "https://tokens.uniswap.org",
		TokenListTTL:   time.Hour,
		BaseTokens:     append([]string(nil), entities.DefaultBaseSymbols...),
		Slippage:       entities.DefaultSlippage,
		Deadline:       600 * time.Second,
		PollInterval:   6 * time.Second,
		Port:           "8080",
		RatePerMinute:  120,
		AllowedOrigins: []string{"*"},
		LogLevel:       "info",
	}
}

// Load reads .env if present, then CONFIG_FILE if set, then the environment
func Load() (*Config, error) {
	// a missing .env is fine, the environment may come from elsewhere
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}

	setString(&c.RPCURL, fc.RPCURL)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.TokenListURI, fc.TokenList.URI)
	setString(&c.TokenListFile, fc.TokenList.File)
	if fc.ChainID != 0 {
		c.ChainID = fc.ChainID
	}
	if fc.RatePerMinute != 0 {
		c.RatePerMinute = fc.RatePerMinute
	}
	if len(fc.BaseTokens) > 0 {
		c.BaseTokens = fc.BaseTokens
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.LogPretty != nil {
		c.LogPretty = *fc.LogPretty
	}

	return errors.Join(
		setAddress(&c.RouterAddress, fc.RouterAddress),
		setAddress(&c.FactoryAddress, fc.FactoryAddress),
		setSlippage(&c.Slippage, fc.SlippagePercent),
		setDuration(&c.Deadline, fc.Deadline),
		setDuration(&c.PollInterval, fc.PollInterval),
		setDuration(&c.TokenListTTL, fc.TokenList.TTL),
	)
}

func (c *Config) applyEnv() error {
	c.RPCURL = getEnv("ETH_RPC_URL", c.RPCURL)
	c.ChainID = getInt64Env("CHAIN_ID", c.ChainID)
	c.PrivateKey = getEnv("PRIVATE_KEY", c.PrivateKey)
	c.TokenListURI = getEnv("TOKEN_LIST_URI", c.TokenListURI)
	c.TokenListFile = getEnv("TOKEN_LIST_FILE", c.TokenListFile)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.BaseTokens = getListEnv("BASE_TOKENS", c.BaseTokens)
	c.Port = getEnv("PORT", c.Port)
	c.RatePerMinute = getIntEnv("RATE_PER_MINUTE", c.RatePerMinute)
	c.AllowedOrigins = getListEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPretty = getBoolEnv("LOG_PRETTY", c.LogPretty)

	return errors.Join(
		setAddress(&c.RouterAddress, os.Getenv("ROUTER_ADDRESS")),
		setAddress(&c.FactoryAddress, os.Getenv("FACTORY_ADDRESS")),
		setSlippage(&c.Slippage, os.Getenv("SLIPPAGE_PERCENT")),
		setDuration(&c.Deadline, os.Getenv("DEADLINE")),
		setDuration(&c.PollInterval, os.Getenv("POLL_INTERVAL")),
		setDuration(&c.TokenListTTL, os.Getenv("TOKEN_LIST_TTL")),
	)
}

// Validate checks the settings that have no usable fallback
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCURL) == "" {
		return ErrMissingRPCURL
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, c.Port)
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChainID, c.ChainID)
	}
	if len(c.BaseTokens) == 0 {
		return ErrNoBaseTokens
	}
	if err := c.Slippage.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSlippage, err)
	}
	if c.Deadline <= 0 {
		return fmt.Errorf("%w: deadline %s", ErrInvalidDuration, c.Deadline)
	}
	return nil
}

// HasSigner reports whether a private key was configured
func (c *Config) HasSigner() bool {
	return strings.TrimSpace(c.PrivateKey) != ""
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func setAddress(dst *common.Address, val string) error {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if !common.IsHexAddress(val) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, val)
	}
	*dst = common.HexToAddress(val)
	return nil
}

func setSlippage(dst *entities.Percent, val string) error {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	p, err := entities.ParsePercent(val)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSlippage, err)
	}
	*dst = p
	return nil
}

func setDuration(dst *time.Duration, val string) error {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, val)
	}
	*dst = d
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getInt64Env(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getListEnv(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
