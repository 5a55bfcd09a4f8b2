// Package predict ties the loaded forest and the feature encoder into a
// stateless prediction function. A Predictor is constructed once at startup
// and is immutable afterwards, so concurrent callers need no locking.
package predict

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"co2-predictor/internal/encoding"
	"co2-predictor/internal/model"
)

// MetricsInterface defines the metrics methods the predictor needs.
type MetricsInterface interface {
	PredictionsInc()
	FailuresInc()
	LatencyObserve(float64)
	EmissionObserve(float64)
	UnknownCategoryInc()
	ModelAgeSet(float64)
}

// Predictor holds the process-wide immutable prediction context: the loaded
// forest, the encoder resolved against the loaded column list, and an
// optional metrics sink.
type Predictor struct {
	forest  *model.Forest
	encoder *encoding.Encoder
	metrics MetricsInterface
}

// Result is one prediction plus its derived impact metrics.
type Result struct {
	EmissionsGPerKM float64 `json:"emissions_g_per_km"`
	Impact          Impact  `json:"impact"`
}

// New builds a predictor without metrics.
func New(forest *model.Forest, encoder *encoding.Encoder) (*Predictor, error) {
	return NewWithMetrics(forest, encoder, nil)
}

// NewWithMetrics builds a predictor and verifies at construction time that
// the two halves of the artifact agree on the feature-vector width. A width
// mismatch means the model and column files come from different training runs
// and every prediction would fail, so it is rejected up front.
func NewWithMetrics(forest *model.Forest, encoder *encoding.Encoder, metrics MetricsInterface) (*Predictor, error) {
	if forest == nil {
		return nil, fmt.Errorf("forest is nil")
	}
	if encoder == nil {
		return nil, fmt.Errorf("encoder is nil")
	}
	if encoder.Width() != forest.FeatureCount {
		return nil, fmt.Errorf("column list has %d columns but model expects %d features",
			encoder.Width(), forest.FeatureCount)
	}

	p := &Predictor{forest: forest, encoder: encoder, metrics: metrics}

	if metrics != nil && !forest.TrainedAt.IsZero() {
		metrics.ModelAgeSet(time.Since(forest.TrainedAt).Seconds())
	}

	return p, nil
}

// ModelVersion returns the loaded artifact's version string.
func (p *Predictor) ModelVersion() string {
	return p.forest.Version
}

// ModelTrainedAt returns when the loaded artifact was trained.
func (p *Predictor) ModelTrainedAt() time.Time {
	return p.forest.TrainedAt
}

// Predict encodes the input, runs forest inference, and returns the emissions
// value rounded to two decimals together with the derived impact metrics. An
// unknown vehicle class or fuel type is not an error: the one-hot signal is
// simply absent from the vector.
func (p *Predictor) Predict(in encoding.Input) (Result, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.LatencyObserve(time.Since(start).Seconds())
		}
	}()

	vec, unknown := p.encoder.Encode(in)
	for _, name := range unknown {
		if p.metrics != nil {
			p.metrics.UnknownCategoryInc()
		}
		log.Debug().Str("column", name).Msg("category has no matching model column")
	}

	raw, err := p.forest.Predict(vec)
	if err != nil {
		if p.metrics != nil {
			p.metrics.FailuresInc()
		}
		return Result{}, fmt.Errorf("forest inference: %w", err)
	}

	emissions := math.Round(raw*100) / 100

	if p.metrics != nil {
		p.metrics.PredictionsInc()
		p.metrics.EmissionObserve(emissions)
	}

	return Result{
		EmissionsGPerKM: emissions,
		Impact:          DeriveImpact(emissions),
	}, nil
}
