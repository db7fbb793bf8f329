package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	eventsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_events_recorded_total",
			Help: "Total number of ledger events recorded",
		},
		[]string{"direction"},
	)

	counterLifecycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_counter_lifecycle_total",
			Help: "Total number of counter lifecycle changes",
		},
		[]string{"action"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tallybook_exports_total",
			Help: "Total number of ledger exports",
		},
		[]string{"format"},
	)
)

func directionLabel(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return DirectionDecrement.String()
	}
	return DirectionIncrement.String()
}
