package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"co2-predictor/internal/encoding"
	"co2-predictor/internal/predict"
	"co2-predictor/internal/web"
)

func exampleInput() encoding.Input {
	return encoding.Input{
		EngineSizeL:     2.0,
		Cylinders:       4,
		ConsumptionCity: 9.9,
		ConsumptionHwy:  6.7,
		ConsumptionComb: 8.5,
		ConsumptionMPG:  33,
		VehicleClass:    "COMPACT",
		FuelType:        "X",
	}
}

func TestPredict(t *testing.T) {
	var gotPath string
	var gotInput encoding.Input

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(web.PredictResponse{
			EmissionsGPerKM: 195.49,
			Impact:          predict.DeriveImpact(195.49),
			ModelVersion:    "test-1",
			LatencyMS:       0.42,
			Timestamp:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	res, err := c.Predict(context.Background(), exampleInput())
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if gotPath != "/api/v1/predict" {
		t.Errorf("Expected POST to /api/v1/predict, got %q", gotPath)
	}
	if gotInput != exampleInput() {
		t.Errorf("Input not round-tripped: %+v", gotInput)
	}
	if res.EmissionsGPerKM != 195.49 {
		t.Errorf("Expected 195.49, got %v", res.EmissionsGPerKM)
	}
	if res.ModelVersion != "test-1" {
		t.Errorf("Expected model version test-1, got %q", res.ModelVersion)
	}
}

func TestPredict_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "engine size out of range"})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Predict(context.Background(), exampleInput())
	if err == nil {
		t.Fatal("Expected error for 400 response, got nil")
	}
	if !strings.Contains(err.Error(), "engine size out of range") {
		t.Errorf("Expected server message in error, got: %v", err)
	}
}

func TestPredict_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.Predict(context.Background(), exampleInput()); err == nil {
		t.Error("Expected error for unreachable server, got nil")
	}
}

func TestPredict_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Predict(ctx, exampleInput()); err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}
