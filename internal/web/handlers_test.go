package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2-predictor/internal/encoding"
	"co2-predictor/internal/model"
	"co2-predictor/internal/predict"
	"co2-predictor/internal/schema"
	"co2-predictor/internal/storage"
)

func leaf(value float64) model.TreeNode {
	return model.TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: value, IsLeaf: true}
}

func testPredictor(t *testing.T) *predict.Predictor {
	t.Helper()
	cols, err := schema.NewColumns([]string{
		encoding.ColEngineSize,
		encoding.ColCylinders,
		encoding.ColConsumptionCity,
		encoding.ColConsumptionHwy,
		encoding.ColConsumptionComb,
		encoding.ColConsumptionMPG,
		encoding.ColWeighted,
		"Vehicle Class_COMPACT",
		"Fuel Type_X",
	})
	require.NoError(t, err)

	enc, err := encoding.NewEncoder(cols)
	require.NoError(t, err)

	forest := &model.Forest{
		Version:      "test-1",
		TrainedAt:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		FeatureCount: 9,
		Trees: [][]model.TreeNode{
			{
				{FeatureIdx: 7, Threshold: 0.5, LeftChild: 1, RightChild: 2},
				leaf(260),
				leaf(190),
			},
			{leaf(200)},
		},
	}

	p, err := predict.New(forest, enc)
	require.NoError(t, err)
	return p
}

func testServer(t *testing.T, store *storage.Store) *Server {
	t.Helper()
	return New(testPredictor(t), store, nil, 8080, 10*time.Second, 10)
}

func validFormValues() url.Values {
	return url.Values{
		"vehicle_class": {"COMPACT"},
		"fuel_type":     {"X"},
		"engine_size":   {"2.0"},
		"cylinders":     {"4"},
		"fuel_city":     {"9.9"},
		"fuel_hwy":      {"6.7"},
		"fuel_comb":     {"8.5"},
		"fuel_mpg":      {"33.0"},
	}
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleIndex(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="vehicle_class"`)
	assert.Contains(t, body, `name="fuel_type"`)
	assert.Contains(t, body, `name="engine_size"`)
	assert.Contains(t, body, `name="cylinders"`)
	assert.Contains(t, body, `name="fuel_city"`)
	assert.Contains(t, body, `name="fuel_mpg"`)
	// All enumerated options are offered.
	for _, class := range schema.VehicleClasses() {
		assert.Contains(t, body, class)
	}
	assert.Contains(t, body, "Regular gasoline")
}

func TestHandlePredictForm(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(validFormValues().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// COMPACT routes to (190 + 200) / 2 = 195.
	assert.Contains(t, body, "195.00 g/km")
	assert.Contains(t, body, "Below average emissions")
}

func TestHandlePredictForm_OtherClassRoutesHigh(t *testing.T) {
	s := testServer(t, nil)

	values := validFormValues()
	values.Set("vehicle_class", "SUV - STANDARD")

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Without the COMPACT column set the tree routes high: (260 + 200) / 2.
	assert.Contains(t, rec.Body.String(), "230.00 g/km")
}

func TestHandlePredictForm_InvalidInput(t *testing.T) {
	s := testServer(t, nil)

	testCases := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"engine size out of range", func(v url.Values) { v.Set("engine_size", "12.0") }},
		{"engine size not a number", func(v url.Values) { v.Set("engine_size", "big") }},
		{"cylinders not offered", func(v url.Values) { v.Set("cylinders", "7") }},
		{"city consumption too high", func(v url.Values) { v.Set("fuel_city", "99") }},
		{"mpg too low", func(v url.Values) { v.Set("fuel_mpg", "1") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values := validFormValues()
			tc.mutate(values)

			req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := doRequest(s, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `<div class="error-box">`)
		})
	}
}

func TestHandleAPIPredict(t *testing.T) {
	s := testServer(t, nil)

	in := encoding.Input{
		EngineSizeL:     2.0,
		Cylinders:       4,
		ConsumptionCity: 9.9,
		ConsumptionHwy:  6.7,
		ConsumptionComb: 8.5,
		ConsumptionMPG:  33,
		VehicleClass:    "COMPACT",
		FuelType:        "X",
	}
	body, err := json.Marshal(in)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(string(body)))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 195.0, resp.EmissionsGPerKM)
	assert.Equal(t, "test-1", resp.ModelVersion)
	assert.InDelta(t, 195.0*15000/1000, resp.Impact.YearlyKG, 1e-9)
	assert.InDelta(t, resp.Impact.YearlyKG/21, resp.Impact.TreesToOffset, 1e-9)
	assert.False(t, resp.Impact.AboveAverage)
}

func TestHandleAPIPredict_UnknownClassSilent(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict",
		strings.NewReader(`{"engine_size_l":2.0,"cylinders":4,"fuel_consumption_city":9.9,"fuel_consumption_hwy":6.7,"fuel_consumption_comb":8.5,"fuel_consumption_mpg":33,"vehicle_class":"HATCHBACK","fuel_type":"X"}`))
	rec := doRequest(s, req)

	// An unknown category is not a request error.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 230.0, resp.EmissionsGPerKM)
}

func TestHandleAPIPredict_BadRequest(t *testing.T) {
	s := testServer(t, nil)

	testCases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"out of range", `{"engine_size_l":20,"cylinders":4,"fuel_consumption_city":9.9,"fuel_consumption_hwy":6.7,"fuel_consumption_comb":8.5,"fuel_consumption_mpg":33,"vehicle_class":"COMPACT","fuel_type":"X"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(tc.body))
			rec := doRequest(s, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestHandleHistory_Disabled(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHistory_RecordsPredictions(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	s := testServer(t, store)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(validFormValues().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, doRequest(s, req).Code)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Predictions []storage.Record `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Predictions, 1)
	assert.Equal(t, 195.0, resp.Predictions[0].EmissionsGPerKM)
	assert.Equal(t, "COMPACT", resp.Predictions[0].Input.VehicleClass)
}

func TestHandleModelInfo(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "test-1", resp["version"])
}

func TestHandlePredictForm_MethodNotAllowed(t *testing.T) {
	s := testServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/predict", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
