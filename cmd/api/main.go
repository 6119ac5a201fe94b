package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gonzalo10/uniswap-interface/internal/config"
	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/cache"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/dex"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/ethereum"
	"github.com/gonzalo10/uniswap-interface/internal/infrastructure/tokenlist"
	"github.com/gonzalo10/uniswap-interface/internal/logging"
	"github.com/gonzalo10/uniswap-interface/internal/observability"
	"github.com/gonzalo10/uniswap-interface/internal/presentation/handlers"
)

const (
	version = "0.3.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", false)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	metrics := observability.NewMetrics("uniswap")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Ethereum client
	ethClient, err := ethereum.Dial(ctx, cfg.RPCURL)
	if err != nil {
		log.Fatal().Err(err).Str("rpc", cfg.RPCURL).Msg("failed to connect to Ethereum")
	}
	defer ethClient.Close()
	if ethClient.ChainID().Int64() != cfg.ChainID {
		log.Warn().
			Int64("configured", cfg.ChainID).
			Str("provider", ethClient.ChainID().String()).
			Msg("provider chain differs from configuration")
	}
	log.Info().Str("chain", ethClient.ChainID().String()).Msg("connected to Ethereum")

	if cfg.HasSigner() {
		if err := ethClient.UseKey(cfg.PrivateKey); err != nil {
			log.Fatal().Err(err).Msg("invalid private key")
		}
	}

	// Token universe
	wrapped, ok := entities.WrappedNative(ethClient.ChainID().Int64())
	if !ok {
		log.Fatal().Str("chain", ethClient.ChainID().String()).Msg("no wrapped native token for chain")
	}
	tokenCache := newTokenCache(cfg, log)
	lists := tokenlist.NewClient(cfg.TokenListURI, cfg.TokenListFile, cfg.TokenListTTL, tokenCache, logging.Component(log, "tokenlist"))
	tokens, err := lists.Registry(ctx, wrapped.ChainID, wrapped)
	if err != nil {
		log.Warn().Err(err).Msg("token list unavailable, using built-in tokens")
		tokens = entities.FallbackRegistry(wrapped)
	}
	log.Info().Int("tokens", tokens.Count()).Msg("token universe loaded")

	// Initialize DEX clients
	pairs := dex.NewUniswapV2Client(ethClient, cfg.FactoryAddress)
	erc20, err := dex.NewERC20Client(ethClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind ERC-20")
	}
	router, err := dex.NewRouterV2Client(ethClient, cfg.RouterAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind router")
	}
	log.Info().
		Str("factory", pairs.Factory().Hex()).
		Str("router", router.Address().Hex()).
		Str("wrapped", wrapped.Address.Hex()).
		Msg("Uniswap V2 contracts bound")

	// Initialize services
	fetcher := services.NewReserveFetcher(pairs, logging.Component(log, "reserves"), metrics)
	quoter := services.NewQuoteService(tokens, fetcher, cfg.BaseTokens, cfg.Slippage, logging.Component(log, "quote"), metrics)

	// Initialize handlers
	routerCfg := handlers.RouterConfig{
		Health:         handlers.NewHealthHandler(version, ethClient),
		Tokens:         handlers.NewTokensHandler(tokens),
		Quote:          handlers.NewQuoteHandler(quoter, tokens),
		Metrics:        metrics.Handler(),
		RatePerMinute:  cfg.RatePerMinute,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            logging.Component(log, "http"),
	}

	if account, err := ethClient.Account(); err == nil {
		pipeline := services.NewQuotePipeline(quoter, logging.Component(log, "pipeline"), metrics)
		allowance := services.NewAllowanceService(erc20, router.Address(), logging.Component(log, "allowance"))
		executor := services.NewSwapExecutor(quoter, erc20, router, account, logging.Component(log, "executor"), metrics,
			services.WithTimeLimit(cfg.Deadline))
		session := services.NewSession(account, pipeline, allowance, executor, logging.Component(log, "session"))

		go session.Run(ctx, cfg.PollInterval)
		routerCfg.Session = handlers.NewSessionHandler(session, tokens)
		log.Info().Str("account", account.Hex()).Msg("session enabled")
	} else {
		log.Warn().Err(err).Msg("no signer, session endpoints disabled")
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting Uniswap interface API")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// newTokenCache prefers Redis and falls back to process memory
func newTokenCache(cfg *config.Config, log zerolog.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		log.Info().Msg("using in-memory token list cache")
		return cache.NewInMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory cache")
		return cache.NewInMemoryCache()
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
	return redisCache
}
