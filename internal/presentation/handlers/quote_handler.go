package handlers

import (
	"net/http"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
)

// QuoteHandler handles quote requests
type QuoteHandler struct {
	quoter services.Quoter
	tokens *entities.TokenRegistry
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoter services.Quoter, tokens *entities.TokenRegistry) *QuoteHandler {
	return &QuoteHandler{
		quoter: quoter,
		tokens: tokens,
	}
}

// GetQuote handles GET /api/v1/quote. It quotes once without touching any
// session state.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters
	q := r.URL.Query()
	tokenInRef := q.Get("tokenIn")
	tokenOutRef := q.Get("tokenOut")
	amountIn := q.Get("amountIn")

	if tokenInRef == "" || tokenOutRef == "" || amountIn == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "tokenIn, tokenOut, and amountIn are required")
		return
	}

	tokenIn, err := resolveToken(h.tokens, tokenInRef)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_in", err.Error())
		return
	}
	tokenOut, err := resolveToken(h.tokens, tokenOutRef)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_out", err.Error())
		return
	}

	// Parse slippage (optional, in basis points, default 50 = 0.5%)
	slippage, err := parseSlippageBps(q.Get("slippageBps"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	quote, err := h.quoter.Quote(r.Context(), services.QuoteRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
		Slippage: slippage,
	})
	if err != nil && (quote == nil || !degradesQuote(err)) {
		writeServiceError(w, err)
		return
	}

	resp := buildQuoteResponse(quote)
	if err != nil {
		_, code := serviceErrorCode(err)
		resp.Error = &ErrorResponse{Error: code, Message: err.Error()}
	}
	writeJSON(w, http.StatusOK, resp)
}
