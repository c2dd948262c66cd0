package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/core"
	"github.com/arnac-io/multisig-panel/pkg/i18n"
	"github.com/arnac-io/multisig-panel/pkg/panel"
	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
)

type stateResponse struct {
	panel.State
	ExplorerLink string `json:"explorer_link,omitempty"`
}

type transactionResponse struct {
	core.Transaction
	ValueEther               string `json:"value_ether"`
	NumConfirmationsRequired uint64 `json:"num_confirmations_required"`
}

func (h *Handler) explorerLink(txHash string) string {
	if txHash == "" || h.explorerTxURL == "" {
		return ""
	}
	return fmt.Sprintf(h.explorerTxURL, txHash)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.controller.State()
	writeJSON(w, http.StatusOK, &stateResponse{
		State:        state,
		ExplorerLink: h.explorerLink(state.LastTxHash),
	})
}

// GetTransaction returns a stored proposal together with the current
// threshold.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(r.PathValue("index"), 10, 64)
	if err != nil {
		writeError(w, httperrors.BadRequest("transaction index must be a non-negative integer"))
		return
	}
	var (
		tx        core.Transaction
		threshold uint64
	)
	p := pool.New().WithErrors().WithContext(r.Context())
	p.Go(func(ctx context.Context) error {
		var err error
		tx, err = h.reader.Transaction(ctx, index)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		threshold, err = h.reader.NumConfirmationsRequired(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		h.logger.Warn("transaction lookup failed", zap.Uint64("tx_index", index), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, &errorJSON{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, &transactionResponse{
		Transaction:              tx,
		ValueEther:               i18n.FormatEther(tx.Value),
		NumConfirmationsRequired: threshold,
	})
}
