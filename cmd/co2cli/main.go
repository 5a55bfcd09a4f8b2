// co2cli submits a single prediction to a running co2d instance and prints
// the result with its derived impact metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"co2-predictor/internal/client"
	"co2-predictor/internal/encoding"
)

func main() {
	var (
		addr    = flag.String("addr", "http://localhost:8080", "base URL of the co2d server")
		timeout = flag.Duration("timeout", 10*time.Second, "request timeout")

		class     = flag.String("class", "COMPACT", "vehicle class")
		fuel      = flag.String("fuel", "X", "fuel type code (X, Z or D)")
		engine    = flag.Float64("engine", 2.0, "engine size in liters")
		cylinders = flag.Int("cylinders", 4, "number of cylinders")
		city      = flag.Float64("city", 9.9, "city fuel consumption (L/100 km)")
		hwy       = flag.Float64("hwy", 6.7, "highway fuel consumption (L/100 km)")
		comb      = flag.Float64("comb", 8.5, "combined fuel consumption (L/100 km)")
		mpg       = flag.Float64("mpg", 33.0, "combined fuel consumption (mpg)")
	)
	flag.Parse()

	in := encoding.Input{
		EngineSizeL:     *engine,
		Cylinders:       *cylinders,
		ConsumptionCity: *city,
		ConsumptionHwy:  *hwy,
		ConsumptionComb: *comb,
		ConsumptionMPG:  *mpg,
		VehicleClass:    *class,
		FuelType:        *fuel,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := client.New(*addr, *timeout).Predict(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Predicted CO2 emissions: %.2f g/km (model %s)\n", resp.EmissionsGPerKM, resp.ModelVersion)
	fmt.Printf("  vs average (%.0f g/km): %+.1f g/km (%+.1f%%)\n",
		resp.Impact.BaselineGPerKM, resp.Impact.DifferenceGPerKM, resp.Impact.PercentVsAverage)
	fmt.Printf("  yearly:  %.1f kg (%.2f tons)\n", resp.Impact.YearlyKG, resp.Impact.YearlyTons)
	fmt.Printf("  monthly: %.1f kg\n", resp.Impact.MonthlyKG)
	fmt.Printf("  daily:   %.2f kg\n", resp.Impact.DailyKG)
	fmt.Printf("  trees to offset per year: %.0f\n", resp.Impact.TreesToOffset)
}
