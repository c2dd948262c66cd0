package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arnac-io/multisig-panel/internal/config"
	"github.com/arnac-io/multisig-panel/pkg/api"
	"github.com/arnac-io/multisig-panel/pkg/app"
	"github.com/arnac-io/multisig-panel/pkg/blockchain"
	"github.com/arnac-io/multisig-panel/pkg/panel"
	"github.com/arnac-io/multisig-panel/pkg/pusher/sources"
	"github.com/arnac-io/multisig-panel/pkg/sentry"
)

func main() {
	cfg := config.Load()
	log := app.Logger(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wallet, err := blockchain.Dial(ctx, log, blockchain.Options{
		RPCURL:     cfg.Chain.RPCURL,
		PrivateKey: cfg.Chain.PrivateKey,
		Contract:   cfg.Chain.Contract,
	})
	if err != nil {
		log.Fatal("bootstrap failed", zap.String("reason", panel.Message("en", err)), zap.Error(err))
	}
	log.Info("connected to wallet",
		zap.Stringer("contract", wallet.Address()),
		zap.Stringer("signer", wallet.Signer()),
		zap.Stringer("chain_id", wallet.ChainID()))

	controller := panel.NewController(log, wallet, panel.Options{
		Gas:         cfg.Panel.Gas,
		AutoConfirm: cfg.Panel.AutoConfirm,
	})
	if err := controller.Refresh(ctx); err != nil {
		log.Fatal("initial refresh failed", zap.Error(err))
	}

	metricsServer := app.MetricsServer(log, fmt.Sprintf(":%v", cfg.App.MetricsPort))

	handler := api.NewHandler(log, api.Options{
		Controller:    controller,
		Reader:        wallet,
		ExplorerTxURL: cfg.API.ExplorerTxURL,
		WatchOwners:   cfg.Panel.WatchOwners,
	})
	server := api.NewServer(log, handler, fmt.Sprintf(":%v", cfg.API.Port),
		api.WithStateSource(sources.NewPanelSource(log, controller)))
	go server.Run()
	log.Info("panel started", zap.Int("port", cfg.API.Port))

	<-ctx.Done()
	log.Info("shutting down")
	if err := app.Shutdown(server, metricsServer); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	sentry.Flush(2 * time.Second)
}
