// Package encoding maps raw vehicle specifications onto the numeric feature
// vector the regression model was trained on: named numeric columns, one
// derived weighted-consumption column, and one-hot categorical columns.
package encoding

import (
	"strings"

	"co2-predictor/internal/schema"
)

// Names of the numeric feature columns, exactly as produced by the
// training-time feature engineering.
const (
	ColEngineSize      = "Engine Size(L)"
	ColCylinders       = "Cylinders"
	ColConsumptionCity = "Fuel Consumption City (L/100 km)"
	ColConsumptionHwy  = "Fuel Consumption Hwy (L/100 km)"
	ColConsumptionComb = "Fuel Consumption Comb (L/100 km)"
	ColConsumptionMPG  = "Fuel Consumption Comb (mpg)"
	ColWeighted        = "Fuel Consumption Weighted"
)

// Weights for the derived weighted-consumption feature. They mirror the
// city/highway split used when the model was trained.
const (
	cityWeight    = 0.55
	highwayWeight = 0.45
)

// Input is one prediction request's worth of vehicle specifications.
type Input struct {
	EngineSizeL     float64 `json:"engine_size_l"`
	Cylinders       int     `json:"cylinders"`
	ConsumptionCity float64 `json:"fuel_consumption_city"`
	ConsumptionHwy  float64 `json:"fuel_consumption_hwy"`
	ConsumptionComb float64 `json:"fuel_consumption_comb"`
	ConsumptionMPG  float64 `json:"fuel_consumption_mpg"`
	VehicleClass    string  `json:"vehicle_class"`
	FuelType        string  `json:"fuel_type"`
}

// Encoder turns an Input into a feature vector aligned to the loaded column
// list. All column positions are resolved once at construction; Encode does
// no string formatting or map building per request.
type Encoder struct {
	width int

	engineIdx int
	cylIdx    int
	cityIdx   int
	hwyIdx    int
	combIdx   int
	mpgIdx    int
	weightIdx int

	classIdx map[string]int // uppercased vehicle class -> column position
	fuelIdx  map[string]int // uppercased fuel-type code -> column position
}

// NewEncoder resolves the numeric and one-hot column positions against the
// loaded column list. A column list that lacks any of the numeric columns
// cannot have come from this model's training run, so that is rejected as a
// malformed artifact. Categorical columns are intersected with the known
// enumerations: a category with no matching column simply never gets encoded.
func NewEncoder(cols *schema.Columns) (*Encoder, error) {
	e := &Encoder{
		width:    cols.Len(),
		classIdx: make(map[string]int),
		fuelIdx:  make(map[string]int),
	}

	numeric := []struct {
		name string
		dst  *int
	}{
		{ColEngineSize, &e.engineIdx},
		{ColCylinders, &e.cylIdx},
		{ColConsumptionCity, &e.cityIdx},
		{ColConsumptionHwy, &e.hwyIdx},
		{ColConsumptionComb, &e.combIdx},
		{ColConsumptionMPG, &e.mpgIdx},
		{ColWeighted, &e.weightIdx},
	}
	for _, n := range numeric {
		idx, ok := cols.Index(n.name)
		if !ok {
			return nil, &MissingColumnError{Name: n.name}
		}
		*n.dst = idx
	}

	for _, class := range schema.VehicleClasses() {
		key := strings.ToUpper(class)
		if idx, ok := cols.Index(schema.VehicleClassPrefix + key); ok {
			e.classIdx[key] = idx
		}
	}
	for _, ft := range schema.FuelTypes() {
		key := strings.ToUpper(ft.Code)
		if idx, ok := cols.Index(schema.FuelTypePrefix + key); ok {
			e.fuelIdx[key] = idx
		}
	}

	return e, nil
}

// MissingColumnError reports a numeric feature column absent from the loaded
// column list.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return "column list is missing numeric column \"" + e.Name + "\""
}

// Width returns the feature-vector length, equal to the column-list length.
func (e *Encoder) Width() int {
	return e.width
}

// WeightedConsumption computes the derived training-time feature from the raw
// city and highway measurements.
func WeightedConsumption(city, highway float64) float64 {
	return city*cityWeight + highway*highwayWeight
}

// Encode builds the feature vector for one input. Unknown vehicle classes or
// fuel types do not set any one-hot column and do not error; the vector simply
// omits that signal. The names of any such unmatched categories are returned
// so the caller can count them.
func (e *Encoder) Encode(in Input) (vec []float64, unknown []string) {
	vec = make([]float64, e.width)

	vec[e.engineIdx] = in.EngineSizeL
	vec[e.cylIdx] = float64(in.Cylinders)
	vec[e.cityIdx] = in.ConsumptionCity
	vec[e.hwyIdx] = in.ConsumptionHwy
	vec[e.combIdx] = in.ConsumptionComb
	vec[e.mpgIdx] = in.ConsumptionMPG
	vec[e.weightIdx] = WeightedConsumption(in.ConsumptionCity, in.ConsumptionHwy)

	if idx, ok := e.classIdx[strings.ToUpper(in.VehicleClass)]; ok {
		vec[idx] = 1
	} else {
		unknown = append(unknown, schema.VehicleClassPrefix+strings.ToUpper(in.VehicleClass))
	}
	if idx, ok := e.fuelIdx[strings.ToUpper(in.FuelType)]; ok {
		vec[idx] = 1
	} else {
		unknown = append(unknown, schema.FuelTypePrefix+strings.ToUpper(in.FuelType))
	}

	return vec, unknown
}
