package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gonzalo10/uniswap-interface/internal/domain/services"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrExecutorBusy, http.StatusConflict, "executor_busy"},
		{services.ErrApprovalNotNeeded, http.StatusConflict, "approval_not_needed"},
		{services.ErrNoSigner, http.StatusServiceUnavailable, "no_signer"},
		{fmt.Errorf("%w: reverted", services.ErrSwapFailed), http.StatusBadGateway, "swap_failed"},
		{fmt.Errorf("%w: nonce too low", services.ErrApprovalFailed), http.StatusBadGateway, "approval_failed"},
		{errors.New("unexpected"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, tt.err.Error(), resp.Message)
		})
	}
}

func TestParseSlippageBps(t *testing.T) {
	p, err := parseSlippageBps("")
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = parseSlippageBps("100")
	assert.NoError(t, err)
	assert.Equal(t, "1%", p.String())
}
