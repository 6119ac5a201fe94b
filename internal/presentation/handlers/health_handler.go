package handlers

import (
	"context"
	"net/http"
	"time"
)

// BlockReader reports the provider's latest block
type BlockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Block   uint64 `json:"block,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	chain   BlockReader
}

// NewHealthHandler creates a new health handler. chain may be nil to skip the
// provider check.
func NewHealthHandler(version string, chain BlockReader) *HealthHandler {
	return &HealthHandler{version: version, chain: chain}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.chain == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	block, err := h.chain.BlockNumber(ctx)
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Block = block
	writeJSON(w, http.StatusOK, resp)
}
