package api

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/panel"
)

//go:embed templates/panel.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/panel.html"))

type pageData struct {
	State        panel.State
	ExplorerLink string
	WatchOwners  []string
	OwnerCheck   string
}

// GetPanel renders the operator panel.
func (h *Handler) GetPanel(w http.ResponseWriter, r *http.Request) {
	state := h.controller.State()
	data := pageData{
		State:        state,
		ExplorerLink: h.explorerLink(state.LastTxHash),
	}
	if state.IsOwner != nil {
		data.OwnerCheck = "Address is not an owner"
		if *state.IsOwner {
			data.OwnerCheck = "Address is an owner"
		}
	}
	for _, owner := range h.watchOwners {
		data.WatchOwners = append(data.WatchOwners, owner.Hex())
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error("failed to render panel", zap.Error(err))
	}
}
