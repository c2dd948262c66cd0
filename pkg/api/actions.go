package api

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/panel"
	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
)

type actionResponse struct {
	State panel.State `json:"state"`
	Error string      `json:"error,omitempty"`
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func formOf(r *http.Request) panel.Form {
	form := panel.Form{}
	for _, field := range panel.Fields {
		if values, ok := r.PostForm[field]; ok && len(values) > 0 {
			form[field] = values[0]
		}
	}
	return form
}

// PostAction runs one panel action. Browsers are redirected back to the
// panel, API clients get the resulting state.
func (h *Handler) PostAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, httperrors.BadRequest(err.Error()))
		return
	}
	action := panel.Action(r.PathValue("action"))
	lang := r.Header.Get("Accept-Language")

	// a transaction already sent to the node is awaited even if the client
	// goes away
	ctx := context.WithoutCancel(r.Context())
	err := h.controller.Do(ctx, lang, action, formOf(r))
	if err != nil {
		h.logger.Debug("action returned an error",
			zap.String("action", action.String()),
			zap.Error(err))
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, statusOf(err), &actionResponse{
		State: h.controller.State(),
		Error: panel.Message(lang, err),
	})
}
