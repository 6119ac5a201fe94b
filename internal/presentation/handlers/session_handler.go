package handlers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
)

// SelectionRequest replaces the session's swap input
type SelectionRequest struct {
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	SlippageBps string `json:"slippageBps,omitempty"`
}

type SelectionResponse struct {
	Generation uint64 `json:"generation"`
}

// SessionQuoteResponse is the latest published quote of the session
type SessionQuoteResponse struct {
	Generation uint64         `json:"generation"`
	Pending    bool           `json:"pending"`
	Quote      *QuoteResponse `json:"quote,omitempty"`
	Error      *ErrorResponse `json:"error,omitempty"`
}

type GateResponse struct {
	Account               string                 `json:"account"`
	InsufficientBalance   services.Tristate      `json:"insufficientBalance"`
	InsufficientAllowance services.Tristate      `json:"insufficientAllowance"`
	NeedsApproval         bool                   `json:"needsApproval"`
	ReadyToSwap           bool                   `json:"readyToSwap"`
	Balance               *big.Int               `json:"balance"`
	Allowance             *big.Int               `json:"allowance"`
	Executor              services.ExecutorState `json:"executor"`
}

// SessionHandler exposes the single account session
type SessionHandler struct {
	session *services.Session
	tokens  *entities.TokenRegistry
}

func NewSessionHandler(session *services.Session, tokens *entities.TokenRegistry) *SessionHandler {
	return &SessionHandler{
		session: session,
		tokens:  tokens,
	}
}

// PutSelection handles PUT /api/v1/session/selection
func (h *SessionHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	tokenIn, err := resolveToken(h.tokens, req.TokenIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_in", err.Error())
		return
	}
	tokenOut, err := resolveToken(h.tokens, req.TokenOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token_out", err.Error())
		return
	}
	slippage, err := parseSlippageBps(req.SlippageBps)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// bad amounts are accepted here and surface as the quote's error
	gen := h.session.Select(r.Context(), services.Selection{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: req.AmountIn,
		Slippage: slippage,
	})
	writeJSON(w, http.StatusAccepted, SelectionResponse{Generation: gen})
}

// GetQuote handles GET /api/v1/session/quote
func (h *SessionHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session.Selection(); !ok {
		writeError(w, http.StatusNotFound, "no_selection", "no swap input selected")
		return
	}

	update := h.session.Quote()
	resp := SessionQuoteResponse{
		Generation: update.Generation,
		Pending:    h.session.QuotePending(),
	}
	if update.Quote != nil {
		q := buildQuoteResponse(update.Quote)
		resp.Quote = &q
	}
	if update.Err != nil {
		resp.Error = &ErrorResponse{Error: "quote_failed", Message: update.Err.Error()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGate handles GET /api/v1/session/gate
func (h *SessionHandler) GetGate(w http.ResponseWriter, r *http.Request) {
	gate := h.session.Gate()
	state := h.session.AccountState()
	writeJSON(w, http.StatusOK, GateResponse{
		Account:               h.session.Account().Hex(),
		InsufficientBalance:   gate.InsufficientBalance,
		InsufficientAllowance: gate.InsufficientAllowance,
		NeedsApproval:         gate.NeedsApproval(),
		ReadyToSwap:           gate.ReadyToSwap(),
		Balance:               state.Balance,
		Allowance:             state.Allowance,
		Executor:              h.session.ExecutorState(),
	})
}

// Approve handles POST /api/v1/session/approve
func (h *SessionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	// a submitted transaction is not abandoned when the client goes away
	out, err := h.session.Approve(context.WithoutCancel(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Swap handles POST /api/v1/session/swap
func (h *SessionHandler) Swap(w http.ResponseWriter, r *http.Request) {
	out, err := h.session.Swap(context.WithoutCancel(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
