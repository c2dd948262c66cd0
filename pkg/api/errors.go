package api

import (
	"encoding/json"
	"net/http"

	"github.com/arnac-io/multisig-panel/pkg/core"
	httperrors "github.com/arnac-io/multisig-panel/pkg/pusher/errors"
)

type errorJSON struct {
	Error string `json:"error"`
}

// statusOf maps an action error to the status of a JSON response.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch core.KindOf(err) {
	case core.ErrValidation:
		return http.StatusUnprocessableEntity
	case core.ErrActionInFlight:
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err httperrors.HTTPError) {
	writeJSON(w, err.Code, &errorJSON{Error: err.Message})
}
