package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dinewise"

// Metrics exposes counters and histograms for the chat and reservation
// flows. A nil *Metrics is valid and records nothing.
type Metrics struct {
	turnsTotal       *prometheus.CounterVec
	classifyFallback *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	callsTotal       *prometheus.CounterVec
	searchCache      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total conversation turns by resolved intent and branch",
		}, []string{"intent", "branch"}),
		classifyFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "classify_fallback_total",
			Help:      "Total intent classifications replaced by the general_chat fallback",
		}, []string{"reason"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Latency of external provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation", "status"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservation",
			Name:      "calls_total",
			Help:      "Total reservation calls placed",
		}, []string{"mode", "status"}),
		searchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "cache_total",
			Help:      "Search cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.classifyFallback, m.providerLatency, m.callsTotal, m.searchCache)
	return m
}

func (m *Metrics) ObserveTurn(intent, branch string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, branch).Inc()
}

func (m *Metrics) ObserveClassifyFallback(reason string) {
	if m == nil {
		return
	}
	m.classifyFallback.WithLabelValues(reason).Inc()
}

// ObserveProvider records how long a provider call took since start
func (m *Metrics) ObserveProvider(provider, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerLatency.WithLabelValues(provider, operation, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveCall(simulated bool, status string) {
	if m == nil {
		return
	}
	mode := "live"
	if simulated {
		mode = "simulated"
	}
	m.callsTotal.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) ObserveSearchCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.searchCache.WithLabelValues(result).Inc()
}
