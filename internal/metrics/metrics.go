// Package metrics provides Prometheus metrics collection for the CO2
// emissions predictor. Metrics are exposed via the promhttp endpoint on the
// metrics port for monitoring and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the predictor service.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal  prometheus.Counter   // Total number of predictions served
	PredictionErrors  prometheus.Counter   // Total number of failed predictions
	PredictionLatency prometheus.Histogram // End-to-end prediction latency in seconds
	PredictedEmission prometheus.Histogram // Distribution of predicted emissions values
	UnknownCategories prometheus.Counter   // Inputs whose category matched no model column
	ModelAge          prometheus.Gauge     // Age of the loaded model artifact in seconds

	// HTTP and persistence metrics
	RequestErrors prometheus.Counter // Total number of rejected HTTP requests
	HistoryWrites prometheus.Counter // Prediction records written to the history store
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry. Tests use this to
// avoid duplicate registration in the global registry.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served",
		}),
		PredictionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of failed predictions",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		PredictedEmission: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "predicted_emissions_g_per_km",
			Help:    "Distribution of predicted CO2 emissions values in g/km",
			Buckets: prometheus.LinearBuckets(50, 50, 10),
		}),
		UnknownCategories: factory.NewCounter(prometheus.CounterOpts{
			Name: "unknown_categories_total",
			Help: "Inputs whose vehicle class or fuel type matched no model column",
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the loaded model artifact in seconds",
		}),
		RequestErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "request_errors_total",
			Help: "Total number of rejected HTTP requests",
		}),
		HistoryWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "history_writes_total",
			Help: "Prediction records written to the history store",
		}),
	}
}
