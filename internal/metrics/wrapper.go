package metrics

// Wrapper adapts Metrics to the small interfaces the predictor and web layers
// consume, so those packages do not import Prometheus types directly.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) FailuresInc() {
	w.m.PredictionErrors.Inc()
}

func (w *Wrapper) LatencyObserve(seconds float64) {
	w.m.PredictionLatency.Observe(seconds)
}

func (w *Wrapper) EmissionObserve(gPerKM float64) {
	w.m.PredictedEmission.Observe(gPerKM)
}

func (w *Wrapper) UnknownCategoryInc() {
	w.m.UnknownCategories.Inc()
}

func (w *Wrapper) ModelAgeSet(seconds float64) {
	w.m.ModelAge.Set(seconds)
}

func (w *Wrapper) RequestErrorInc() {
	w.m.RequestErrors.Inc()
}

func (w *Wrapper) HistoryWriteInc() {
	w.m.HistoryWrites.Inc()
}
