// Invariants are conditions in code that must be true; otherwise, there is a bug in code.
// Think of what you'd `panic()` on, but you don't want to take the server down because of it. When an invariant is
// violated, an error is logged and a monitoring counter is incremented so the violation can be alerted on.
// It is still up to the caller to handle the erroneous case, e.g. fall back to a sane value or return early.
//
// Do not use invariants for conditions that depend on external input; a client sending an out-of-range position is
// a regular error. A list whose back-references disagree with its forward links is an invariant violation.

package utils

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dlist",
	Name:      "invariants_total",
	Help:      "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred.
	"type",   // The type of the invariant that occurred.
})

// RaiseInvariant records a violated invariant of `invariantType` inside `module`.
// In test mode builds it panics so violations can't go unnoticed.
func RaiseInvariant(module, invariantType, msg string, args ...any) {
	invariantsMetric.WithLabelValues(module, invariantType).Inc()
	slog.With("invariant", invariantType, "module", module).Error(msg, args...)
	if IsTestMode {
		panic("invariant violated: " + invariantType)
	}
}

// GetMetricValue returns the current value of the invariant counter labeled with `module` and `invariantType`.
func GetMetricValue(module, invariantType string) int {
	return int(ReadCounter(invariantsMetric.WithLabelValues(module, invariantType)))
}

// ReadCounter returns the current value of the given counter, or zero if it can't be read.
func ReadCounter(counter prometheus.Counter) float64 {
	var metric = &promclient.Metric{}
	if err := counter.Write(metric); err != nil {
		slog.Error("Failed to read counter.", "error", err)
		return 0
	}
	return metric.GetCounter().GetValue()
}
