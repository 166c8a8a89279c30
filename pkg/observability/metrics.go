package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/domain"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Constructs         *prometheus.CounterVec
	SelectionExhausted *prometheus.CounterVec
	SymbolInvocations  *prometheus.CounterVec
	SequenceLength     *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Constructs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_constructs_total",
				Help: "Total number of completed construct runs",
			},
			[]string{"preset"},
		),
		SelectionExhausted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_selection_exhausted_total",
				Help: "Rule selections that fell back to the first rule",
			},
			[]string{"source"},
		),
		SymbolInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_symbol_invocations_total",
				Help: "Symbol handler invocations during execution passes",
			},
			[]string{"symbol"},
		),
		SequenceLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_sequence_length",
				Help:    "Length of the terminal sequence produced by construct",
				Buckets: prometheus.ExponentialBuckets(8, 4, 8),
			},
			[]string{"preset"},
		),
	}
}

// Collectors returns every collector.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Constructs, m.SelectionExhausted, m.SymbolInvocations, m.SequenceLength}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Collectors()...)
}

// Hooks returns lifecycle hooks that record into m under preset.
func (m *Metrics) Hooks(preset string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(e *domain.ConstructEvent) {
			m.Constructs.WithLabelValues(preset).Inc()
			m.SequenceLength.WithLabelValues(preset).Observe(float64(e.Length))
		},
		OnSelectionExhausted: func(e *domain.SelectionEvent) {
			m.SelectionExhausted.WithLabelValues(string(e.Source)).Inc()
		},
		OnSymbol: func(e *domain.SymbolEvent) {
			m.SymbolInvocations.WithLabelValues(string(e.Symbol)).Inc()
		},
	}
}

// LogHooks returns lifecycle hooks that log construct results and
// exhausted selections. Symbol events are too frequent to log.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(e *domain.ConstructEvent) {
			logger.Info("construct finished",
				"iterations", e.Iterations,
				"length", e.Length,
				"max_depth", e.MaxDepth,
			)
		},
		OnSelectionExhausted: func(e *domain.SelectionEvent) {
			logger.Warn("selection exhausted",
				"source", string(e.Source),
				"position", e.Position,
				"generation", e.Generation,
			)
		},
	}
}
