// Package schema holds the trained feature-column list and the fixed
// categorical enumerations the model was trained against. The column list is
// loaded once at startup and is immutable afterwards; every feature vector the
// encoder produces is aligned to it.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Column-name prefixes used for the one-hot encoded categories. These match
// the names produced by the training-time feature engineering.
const (
	VehicleClassPrefix = "Vehicle Class_"
	FuelTypePrefix     = "Fuel Type_"
)

// FuelType pairs a fuel-type code with its human-readable label.
type FuelType struct {
	Code  string
	Label string
}

var vehicleClasses = []string{
	"COMPACT",
	"SUV - SMALL",
	"MID-SIZE",
	"SUV - STANDARD",
	"FULL-SIZE",
}

var fuelTypes = []FuelType{
	{Code: "X", Label: "Regular gasoline"},
	{Code: "Z", Label: "Premium gasoline"},
	{Code: "D", Label: "Diesel"},
}

var cylinderOptions = []int{3, 4, 5, 6, 8, 10, 12, 16}

// VehicleClasses returns the vehicle classes the model knows about, in
// presentation order.
func VehicleClasses() []string {
	out := make([]string, len(vehicleClasses))
	copy(out, vehicleClasses)
	return out
}

// FuelTypes returns the fuel-type codes with labels, in presentation order.
func FuelTypes() []FuelType {
	out := make([]FuelType, len(fuelTypes))
	copy(out, fuelTypes)
	return out
}

// CylinderOptions returns the selectable cylinder counts.
func CylinderOptions() []int {
	out := make([]int, len(cylinderOptions))
	copy(out, cylinderOptions)
	return out
}

// Columns is the ordered list of feature-column names the model was trained
// on. It defines the exact width and position of the model's input vector.
type Columns struct {
	names []string
	index map[string]int
}

type columnsFile struct {
	DataColumns []string `json:"data_columns"`
}

// LoadColumns reads the column-name document from path. The document must be
// a JSON object with a data_columns key mapping to a non-empty ordered list of
// strings. A missing or malformed file is a startup-fatal condition for the
// caller; no partial state is returned.
func LoadColumns(path string) (*Columns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read columns file %s: %w", path, err)
	}

	var doc columnsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse columns file %s: %w", path, err)
	}
	if len(doc.DataColumns) == 0 {
		return nil, fmt.Errorf("columns file %s: data_columns is missing or empty", path)
	}

	return NewColumns(doc.DataColumns)
}

// NewColumns builds a Columns from an ordered name list. Duplicate names are
// rejected since they would make vector positions ambiguous.
func NewColumns(names []string) (*Columns, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("column list is empty")
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q at position %d", name, i)
		}
		index[name] = i
	}

	owned := make([]string, len(names))
	copy(owned, names)
	return &Columns{names: owned, index: index}, nil
}

// Len returns the number of feature columns, i.e. the model's input width.
func (c *Columns) Len() int {
	return len(c.names)
}

// Names returns a copy of the ordered column names.
func (c *Columns) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Index returns the vector position of a column by exact name.
func (c *Columns) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}
