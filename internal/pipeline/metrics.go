package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects batch counters in a private Prometheus registry.
type Metrics struct {
	registry      *prometheus.Registry
	pages         *prometheus.CounterVec
	stageDuration *prometheus.GaugeVec
	skewAngle     prometheus.Histogram
	lowConfidence prometheus.Counter
	unanswered    prometheus.Gauge
	questions     prometheus.Gauge
}

// NewMetrics registers the omr-grader metrics in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omr_pages_total",
			Help: "Pages handled per stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "omr_stage_duration_seconds",
			Help: "Wall time of the last run of each stage.",
		}, []string{"stage"}),
		skewAngle: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "omr_skew_angle_degrees",
			Help:    "Skew corrections applied to aligned pages.",
			Buckets: []float64{-10, -5, -2, -1, -0.5, 0, 0.5, 1, 2, 5, 10},
		}),
		lowConfidence: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omr_skew_low_confidence_total",
			Help: "Pages aligned without a usable skew signal.",
		}),
		unanswered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omr_unanswered_questions",
			Help: "Unanswered questions in the last grading run.",
		}),
		questions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omr_graded_questions",
			Help: "Questions resolved in the last grading run.",
		}),
	}
	m.registry.MustRegister(m.pages, m.stageDuration, m.skewAngle, m.lowConfidence, m.unanswered, m.questions)
	return m
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the Prometheus text format, for the
// node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) observeStage(stage string, s Summary) {
	m.pages.WithLabelValues(stage, "ok").Add(float64(s.Processed))
	m.pages.WithLabelValues(stage, "failed").Add(float64(s.Failed))
	m.pages.WithLabelValues(stage, "skipped").Add(float64(s.Skipped))
	m.stageDuration.WithLabelValues(stage).Set(s.Duration.Seconds())
}

func (m *Metrics) observeSkew(angle float64, confident bool) {
	m.skewAngle.Observe(angle)
	if !confident {
		m.lowConfidence.Inc()
	}
}

func (m *Metrics) setGradeTotals(questions, unanswered int) {
	m.questions.Set(float64(questions))
	m.unanswered.Set(float64(unanswered))
}
