package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for TransfersTotal.
const (
	TransferCompleted           = "completed"
	TransferInsufficientBalance = "insufficient_balance"
	TransferNotFound            = "not_found"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WalletsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_wallets_total",
			Help: "Wallet lifecycle events by action",
		},
		[]string{"action"},
	)

	DepositsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_ledger_deposits_total",
			Help: "Total number of committed deposits",
		},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_transfers_total",
			Help: "Transfer attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWalletCreated() {
	WalletsTotal.WithLabelValues("created").Inc()
}

func RecordWalletDeleted() {
	WalletsTotal.WithLabelValues("deleted").Inc()
}

func RecordDeposit() {
	DepositsTotal.Inc()
}

func RecordTransfer(outcome string) {
	TransfersTotal.WithLabelValues(outcome).Inc()
}
