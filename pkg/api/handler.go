package api

import (
	"context"
	"html/template"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/pkg/core"
	"github.com/arnac-io/multisig-panel/pkg/panel"
)

type controller interface {
	State() panel.State
	Do(ctx context.Context, lang string, action panel.Action, form panel.Form) error
}

// reader serves read-only lookups that bypass the controller.
type reader interface {
	NumConfirmationsRequired(ctx context.Context) (uint64, error)
	Transaction(ctx context.Context, index uint64) (core.Transaction, error)
}

// Compile-time check for Controller.
var _ controller = (*panel.Controller)(nil)

type Handler struct {
	logger        *zap.Logger
	controller    controller
	reader        reader
	explorerTxURL string
	watchOwners   []common.Address
	page          *template.Template
}

// Options configures a Handler.
type Options struct {
	Controller controller
	Reader     reader
	// ExplorerTxURL is a printf template receiving the transaction hash.
	ExplorerTxURL string
	WatchOwners   []common.Address
}

func NewHandler(logger *zap.Logger, opts Options) *Handler {
	return &Handler{
		logger:        logger,
		controller:    opts.Controller,
		reader:        opts.Reader,
		explorerTxURL: opts.ExplorerTxURL,
		watchOwners:   opts.WatchOwners,
		page:          pageTemplate,
	}
}
