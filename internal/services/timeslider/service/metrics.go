package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "timeslider"

// Metrics are the control's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// DateCommits counts committed dates
	DateCommits prometheus.Counter
	// SelectedYear is the last committed year
	SelectedYear prometheus.Gauge
	// RangeChanges counts range edits by result (committed, rejected)
	RangeChanges *prometheus.CounterVec
	// FilterWrites counts layer filter writes by kind (install, refresh, restore)
	FilterWrites *prometheus.CounterVec
	// Layers is the attached layer count by status (controlled, skipped)
	Layers *prometheus.GaugeVec
	// HashReads counts fragment reads by result (applied, ignored)
	HashReads *prometheus.CounterVec
	// HashWrites counts fragment writes
	HashWrites prometheus.Counter
	// CallbackPanics counts panics recovered on the scheduler
	CallbackPanics prometheus.Counter
}

// NewMetrics registers the instruments on reg; nil reg leaves them unregistered
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DateCommits: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "date_commits_total",
			Help: "Committed date selections",
		}),
		SelectedYear: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "selected_year",
			Help: "Currently selected year",
		}),
		RangeChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "range_changes_total",
			Help: "Range edits by result",
		}, []string{"result"}),
		FilterWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "filter_writes_total",
			Help: "Layer filter writes by kind",
		}, []string{"kind"}),
		Layers: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "layers",
			Help: "Layers of the attached source by status",
		}, []string{"status"}),
		HashReads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "hash", Name: "reads_total",
			Help: "Fragment reads by result",
		}, []string{"result"}),
		HashWrites: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "hash", Name: "writes_total",
			Help: "Fragment writes",
		}),
		CallbackPanics: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Subsystem: "scheduler", Name: "panics_total",
			Help: "Panics recovered from scheduled callbacks",
		}),
	}
}

func (m *Metrics) date(y int) {
	if m == nil {
		return
	}
	m.DateCommits.Inc()
	m.SelectedYear.Set(float64(y))
}

func (m *Metrics) rangeChange(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.RangeChanges.WithLabelValues("committed").Inc()
		return
	}
	m.RangeChanges.WithLabelValues("rejected").Inc()
}

func (m *Metrics) filterWrite(kind string) {
	if m == nil {
		return
	}
	m.FilterWrites.WithLabelValues(kind).Inc()
}

func (m *Metrics) layers(controlled, skipped int) {
	if m == nil {
		return
	}
	m.Layers.WithLabelValues("controlled").Set(float64(controlled))
	m.Layers.WithLabelValues("skipped").Set(float64(skipped))
}

func (m *Metrics) hashRead(applied bool) {
	if m == nil {
		return
	}
	if applied {
		m.HashReads.WithLabelValues("applied").Inc()
		return
	}
	m.HashReads.WithLabelValues("ignored").Inc()
}

func (m *Metrics) hashWrite() {
	if m == nil {
		return
	}
	m.HashWrites.Inc()
}

// Panic records a recovered scheduler panic; fits sched.LoopOptions.OnPanic
func (m *Metrics) Panic(any) {
	if m == nil {
		return
	}
	m.CallbackPanics.Inc()
}
