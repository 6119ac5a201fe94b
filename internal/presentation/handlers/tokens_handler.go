package handlers

import (
	"net/http"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

type TokensResponse struct {
	Count  int              `json:"count"`
	Tokens []entities.Token `json:"tokens"`
}

type TokensHandler struct {
	tokens *entities.TokenRegistry
}

func NewTokensHandler(tokens *entities.TokenRegistry) *TokensHandler {
	return &TokensHandler{tokens: tokens}
}

// ListTokens handles GET /api/v1/tokens
func (h *TokensHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	all := h.tokens.GetAll()
	writeJSON(w, http.StatusOK, TokensResponse{
		Count:  len(all),
		Tokens: all,
	})
}
