package service

import (
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы операций со слотами
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Metrics счётчики операций со слотами. Нулевой указатель ничего не считает.
type Metrics struct {
	workflows  *prometheus.CounterVec
	violations *prometheus.CounterVec
}

// NewMetrics создаёт счётчики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		workflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "room_booking",
			Name:      "workflows_total",
			Help:      "Slot workflow invocations by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "room_booking",
			Name:      "violations_total",
			Help:      "Rule violations returned to callers by workflow and field.",
		}, []string{"workflow", "field"}),
	}
	reg.MustRegister(m.workflows, m.violations)
	return m
}

func (m *Metrics) observe(workflow, outcome string, violations model.Violations) {
	if m == nil {
		return
	}
	m.workflows.WithLabelValues(workflow, outcome).Inc()
	for _, v := range violations {
		field := v.Field
		if field == model.FieldGeneral {
			field = "general"
		}
		m.violations.WithLabelValues(workflow, field).Inc()
	}
}
