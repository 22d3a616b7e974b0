// internal/metrics/metrics.go

// Package metrics exposes Prometheus instruments for the ledger core.
// Scraped via the /metrics endpoint on the API router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerEntriesTotal counts committed ledger entries by transaction type.
var LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_entries_total",
	Help: "Committed ledger entries by transaction type.",
}, []string{"type"})

// LedgerRejectionsTotal counts mutations rejected before or during apply.
var LedgerRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_rejections_total",
	Help: "Rejected ledger mutations by reason.",
}, []string{"reason"})

// LedgerConflictRetries counts apply attempts retried after store contention.
var LedgerConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ledger_conflict_retries_total",
	Help: "Apply attempts retried after a serialization conflict or deadlock.",
})

// LedgerApplyDuration observes end-to-end atomic apply latency in seconds.
var LedgerApplyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "ledger_apply_duration_seconds",
	Help:    "Latency of the atomic ledger apply, including retries.",
	Buckets: prometheus.DefBuckets,
})

// InvariantViolationsTotal counts detected partial-apply conditions. This
// should stay at zero; any increment is a bug in the transaction boundary.
var InvariantViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ledger_invariant_violations_total",
	Help: "Detected ledger invariant violations (expected to be zero).",
})
