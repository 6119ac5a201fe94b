package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// QuoteResponse represents a quote response
type QuoteResponse struct {
	TokenIn        string         `json:"tokenIn"`
	TokenOut       string         `json:"tokenOut"`
	AmountIn       string         `json:"amountIn"`
	AmountOut      string         `json:"amountOut,omitempty"`
	AmountOutHuman string         `json:"amountOutHuman,omitempty"`
	MinAmountOut   string         `json:"minAmountOut,omitempty"`
	Slippage       string         `json:"slippage"`
	NoRoute        bool           `json:"noRoute"`
	Route          []RouteHop     `json:"route"`
	GasEstimate    uint64         `json:"gasEstimate,omitempty"`
	Generation     uint64         `json:"generation,omitempty"`
	QuotedAt       time.Time      `json:"quotedAt"`
	Error          *ErrorResponse `json:"error,omitempty"`
}

// RouteHop represents a hop in the route
type RouteHop struct {
	Pair     string `json:"pair"`
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Fee      uint64 `json:"fee"`
}

// buildQuoteResponse converts a Quote to a QuoteResponse
func buildQuoteResponse(quote *entities.Quote) QuoteResponse {
	resp := QuoteResponse{
		TokenIn:    quote.TokenIn.Symbol,
		TokenOut:   quote.TokenOut.Symbol,
		Slippage:   quote.Slippage.String(),
		NoRoute:    !quote.HasTrade(),
		Route:      []RouteHop{},
		Generation: quote.Generation,
		QuotedAt:   quote.QuotedAt,
	}
	if quote.AmountIn != nil {
		resp.AmountIn = quote.AmountIn.String()
	}
	if !quote.HasTrade() {
		return resp
	}

	resp.AmountOut = quote.AmountOut.String()
	resp.AmountOutHuman = quote.AmountOutHuman
	if quote.MinimumAmountOut != nil {
		resp.MinAmountOut = quote.MinimumAmountOut.String()
	}
	resp.GasEstimate = quote.GasEstimate

	route := quote.Trade.Route
	for i, pair := range route.Pairs {
		resp.Route = append(resp.Route, RouteHop{
			Pair:     pair.Address.Hex(),
			TokenIn:  route.Path[i].Address.Hex(),
			TokenOut: route.Path[i+1].Address.Hex(),
			Fee:      pair.Fee,
		})
	}
	return resp
}

// resolveToken looks a token up by symbol or address
func resolveToken(tokens *entities.TokenRegistry, ref string) (entities.Token, error) {
	if strings.TrimSpace(ref) == "" {
		return entities.Token{}, fmt.Errorf("%w: empty reference", services.ErrUnknownToken)
	}
	token, ok := tokens.Resolve(ref)
	if !ok {
		return entities.Token{}, fmt.Errorf("%w: %s", services.ErrUnknownToken, ref)
	}
	return token, nil
}

// parseSlippageBps parses an optional basis point tolerance
func parseSlippageBps(s string) (*entities.Percent, error) {
	if s == "" {
		return nil, nil
	}
	bps, err := strconv.ParseUint(s, 10, 64)
	if err != nil || bps > 10000 {
		return nil, fmt.Errorf("%w: slippageBps must be 0-10000", entities.ErrInvalidPercent)
	}
	p := entities.PercentFromBps(bps)
	return &p, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeServiceError maps a service error to a status and error code
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := serviceErrorCode(err)
	writeError(w, status, code, err.Error())
}

// degradesQuote reports whether a read-path error still yields an empty quote
func degradesQuote(err error) bool {
	return errors.Is(err, services.ErrIdenticalTokens) || errors.Is(err, services.ErrProviderUnavailable)
}

func serviceErrorCode(err error) (int, string) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, entities.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, entities.ErrInvalidPercent):
		status, code = http.StatusBadRequest, "invalid_slippage"
	case errors.Is(err, services.ErrIdenticalTokens):
		status, code = http.StatusBadRequest, "identical_tokens"
	case errors.Is(err, services.ErrUnknownToken):
		status, code = http.StatusBadRequest, "unknown_token"
	case errors.Is(err, services.ErrSwapNotReady):
		status, code = http.StatusConflict, "swap_not_ready"
	case errors.Is(err, services.ErrApprovalNotNeeded):
		status, code = http.StatusConflict, "approval_not_needed"
	case errors.Is(err, services.ErrExecutorBusy):
		status, code = http.StatusConflict, "executor_busy"
	case errors.Is(err, services.ErrNoSigner):
		status, code = http.StatusServiceUnavailable, "no_signer"
	case errors.Is(err, services.ErrProviderUnavailable):
		status, code = http.StatusServiceUnavailable, "provider_unavailable"
	case errors.Is(err, services.ErrApprovalFailed):
		status, code = http.StatusBadGateway, "approval_failed"
	case errors.Is(err, services.ErrSwapFailed):
		status, code = http.StatusBadGateway, "swap_failed"
	}
	return status, code
}
