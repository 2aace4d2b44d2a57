package metrics

import "github.com/prometheus/client_golang/prometheus"

// ExtractionMetrics exposes counters/histograms for the notes-extraction
// pipeline.
type ExtractionMetrics struct {
	extractionTotal   *prometheus.CounterVec
	repairsTotal      *prometheus.CounterVec
	cacheTotal        *prometheus.CounterVec
	extractionLatency *prometheus.HistogramVec
}

func NewExtractionMetrics(reg prometheus.Registerer) *ExtractionMetrics {
	m := &ExtractionMetrics{
		extractionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medscheck",
			Subsystem: "extraction",
			Name:      "total",
			Help:      "Total extraction runs by path and status",
		}, []string{"path", "status"}),
		repairsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medscheck",
			Subsystem: "extraction",
			Name:      "candidate_repairs_total",
			Help:      "Total candidate field repairs by field class",
		}, []string{"field_class"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medscheck",
			Subsystem: "extraction",
			Name:      "cache_total",
			Help:      "Extraction cache lookups by result",
		}, []string{"result"}),
		extractionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medscheck",
			Subsystem: "extraction",
			Name:      "latency_seconds",
			Help:      "Latency of extraction runs by path",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.extractionTotal, m.repairsTotal, m.cacheTotal, m.extractionLatency)
	return m
}

func (m *ExtractionMetrics) ObserveExtraction(path, status string) {
	if m == nil {
		return
	}
	m.extractionTotal.WithLabelValues(path, status).Inc()
}

func (m *ExtractionMetrics) ObserveRepairs(fieldClass string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.repairsTotal.WithLabelValues(fieldClass).Add(float64(count))
}

func (m *ExtractionMetrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

func (m *ExtractionMetrics) ObserveLatency(path string, seconds float64) {
	if m == nil {
		return
	}
	m.extractionLatency.WithLabelValues(path).Observe(seconds)
}
