package web

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"co2-predictor/internal/encoding"
	"co2-predictor/internal/predict"
	"co2-predictor/internal/schema"
	"co2-predictor/internal/storage"
)

// Input bounds enforced at the request edge. These mirror the form widget
// bounds; the encoder itself performs no validation.
const (
	minEngineSize = 0.5
	maxEngineSize = 8.0
	minCityL100   = 1.0
	maxCityL100   = 30.0
	minHwyL100    = 1.0
	maxHwyL100    = 25.0
	minCombL100   = 1.0
	maxCombL100   = 30.0
	minCombMPG    = 5.0
	maxCombMPG    = 100.0
)

// pageData feeds the single page template for both the blank form and the
// form-plus-result render.
type pageData struct {
	Classes   []string
	Fuels     []schema.FuelType
	Cylinders []int
	Form      encoding.Input
	Result    *resultView
	Error     string
	History   []storage.Record
}

// resultView decorates a prediction result with presentation-only values.
type resultView struct {
	predict.Result
	AbsDifference float64
	AbsPercent    float64
	VehicleBarPct float64
	AverageBarPct float64
}

func newResultView(res predict.Result) *resultView {
	// Scale both bars against whichever value is larger so the longer bar is
	// always full width.
	max := res.EmissionsGPerKM
	if res.Impact.BaselineGPerKM > max {
		max = res.Impact.BaselineGPerKM
	}
	v := &resultView{
		Result:        res,
		AbsDifference: math.Abs(res.Impact.DifferenceGPerKM),
		AbsPercent:    math.Abs(res.Impact.PercentVsAverage),
	}
	if max > 0 {
		v.VehicleBarPct = res.EmissionsGPerKM / max * 100
		v.AverageBarPct = res.Impact.BaselineGPerKM / max * 100
	}
	return v
}

func defaultForm() encoding.Input {
	return encoding.Input{
		EngineSizeL:     2.0,
		Cylinders:       4,
		ConsumptionCity: 9.9,
		ConsumptionHwy:  6.7,
		ConsumptionComb: 8.5,
		ConsumptionMPG:  33.0,
		VehicleClass:    "COMPACT",
		FuelType:        "X",
	}
}

func (s *Server) newPageData() pageData {
	return pageData{
		Classes:   schema.VehicleClasses(),
		Fuels:     schema.FuelTypes(),
		Cylinders: schema.CylinderOptions(),
		Form:      defaultForm(),
		History:   s.recentHistory(),
	}
}

func (s *Server) recentHistory() []storage.Record {
	if s.store == nil {
		return nil
	}
	records, err := s.store.Recent(s.historySize)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read prediction history")
		return nil
	}
	return records
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, s.newPageData())
}

func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData()

	in, err := parseForm(r)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RequestErrorInc()
		}
		data.Error = err.Error()
		w.WriteHeader(http.StatusBadRequest)
		s.renderPage(w, data)
		return
	}
	data.Form = in

	res, err := s.predictor.Predict(in)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		data.Error = "prediction failed, see server logs"
		w.WriteHeader(http.StatusInternalServerError)
		s.renderPage(w, data)
		return
	}

	s.recordPrediction(in, res)
	data.Result = newResultView(res)
	data.History = s.recentHistory()
	s.renderPage(w, data)
}

func (s *Server) renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("template render failed")
	}
}

// PredictResponse is the JSON API prediction result envelope.
type PredictResponse struct {
	EmissionsGPerKM float64        `json:"emissions_g_per_km"`
	Impact          predict.Impact `json:"impact"`
	ModelVersion    string         `json:"model_version"`
	LatencyMS       float64        `json:"latency_ms"`
	Timestamp       time.Time      `json:"timestamp"`
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in encoding.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.apiError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if err := validateInput(in); err != nil {
		s.apiError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.predictor.Predict(in)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		s.apiError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	s.recordPrediction(in, res)

	resp := PredictResponse{
		EmissionsGPerKM: res.EmissionsGPerKM,
		Impact:          res.Impact,
		ModelVersion:    s.predictor.ModelVersion(),
		LatencyMS:       float64(time.Since(start).Milliseconds()),
		Timestamp:       time.Now(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.apiError(w, http.StatusNotFound, "history persistence is disabled")
		return
	}
	records, err := s.store.Recent(s.historySize)
	if err != nil {
		log.Error().Err(err).Msg("history read failed")
		s.apiError(w, http.StatusInternalServerError, "history read failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": records})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    s.predictor.ModelVersion(),
		"trained_at": s.predictor.ModelTrainedAt(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// recordPrediction persists and broadcasts one served prediction. Persistence
// failures are logged and otherwise ignored; the prediction itself succeeded.
func (s *Server) recordPrediction(in encoding.Input, res predict.Result) {
	rec := storage.Record{
		Ts:              time.Now(),
		Input:           in,
		EmissionsGPerKM: res.EmissionsGPerKM,
	}

	if s.store != nil {
		if err := s.store.Append(rec); err != nil {
			log.Warn().Err(err).Msg("failed to persist prediction record")
		} else if s.metrics != nil {
			s.metrics.HistoryWriteInc()
		}
	}

	s.broadcast(rec)
}

func (s *Server) apiError(w http.ResponseWriter, status int, msg string) {
	if s.metrics != nil && status >= 400 && status < 500 {
		s.metrics.RequestErrorInc()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func parseForm(r *http.Request) (encoding.Input, error) {
	if err := r.ParseForm(); err != nil {
		return encoding.Input{}, fmt.Errorf("malformed form: %w", err)
	}

	in := encoding.Input{
		VehicleClass: r.FormValue("vehicle_class"),
		FuelType:     r.FormValue("fuel_type"),
	}

	floats := []struct {
		field string
		dst   *float64
	}{
		{"engine_size", &in.EngineSizeL},
		{"fuel_city", &in.ConsumptionCity},
		{"fuel_hwy", &in.ConsumptionHwy},
		{"fuel_comb", &in.ConsumptionComb},
		{"fuel_mpg", &in.ConsumptionMPG},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(r.FormValue(f.field), 64)
		if err != nil {
			return encoding.Input{}, fmt.Errorf("field %s: not a number", f.field)
		}
		*f.dst = v
	}

	cyl, err := strconv.Atoi(r.FormValue("cylinders"))
	if err != nil {
		return encoding.Input{}, fmt.Errorf("field cylinders: not a number")
	}
	in.Cylinders = cyl

	if err := validateInput(in); err != nil {
		return encoding.Input{}, err
	}
	return in, nil
}

// validateInput enforces the widget bounds at the request edge. Vehicle class
// and fuel type are deliberately not checked against the enumerations: an
// unknown category degrades to "no category selected" inside the encoder.
func validateInput(in encoding.Input) error {
	checks := []struct {
		name     string
		val      float64
		min, max float64
	}{
		{"engine size", in.EngineSizeL, minEngineSize, maxEngineSize},
		{"city consumption", in.ConsumptionCity, minCityL100, maxCityL100},
		{"highway consumption", in.ConsumptionHwy, minHwyL100, maxHwyL100},
		{"combined consumption", in.ConsumptionComb, minCombL100, maxCombL100},
		{"combined mpg", in.ConsumptionMPG, minCombMPG, maxCombMPG},
	}
	for _, c := range checks {
		if c.val < c.min || c.val > c.max {
			return fmt.Errorf("%s must be between %g and %g, got %g", c.name, c.min, c.max, c.val)
		}
	}

	valid := false
	for _, c := range schema.CylinderOptions() {
		if in.Cylinders == c {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("cylinders must be one of %v, got %d", schema.CylinderOptions(), in.Cylinders)
	}

	return nil
}
