package panel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arnac-io/multisig-panel/pkg/core"
)

var (
	actionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panel_actions_total",
		},
		[]string{"action", "result"},
	)
	actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panel_action_duration_seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"action"},
	)
	remediations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "panel_execute_remediations_total",
			Help: "Executions retried after confirming on behalf of the signer",
		},
	)
)

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch core.KindOf(err) {
	case core.ErrValidation:
		return "validation"
	case core.ErrActionInFlight:
		return "busy"
	case core.ErrAlreadyExecuted:
		return "already_executed"
	case core.ErrInsufficientConfirmations:
		return "insufficient_confirmations"
	case core.ErrConnectivity:
		return "connectivity"
	}
	return "reverted"
}

func observeAction(action Action, err error, d time.Duration) {
	actionsCounter.WithLabelValues(action.String(), resultLabel(err)).Inc()
	actionDuration.WithLabelValues(action.String()).Observe(d.Seconds())
}
