// Package seawater approximates seawater density from salinity and
// temperature using the simplified UNESCO 1983 equation of state at
// atmospheric pressure.
package seawater

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FreshwaterDensity returns the density of pure water (kg/m³) at temperature t (°C).
func FreshwaterDensity(t float64) float64 {
	return 999.842594 + 6.793952e-2*t - 9.095290e-3*t*t + 1.001685e-4*t*t*t
}

// Density returns the density (kg/m³) of seawater with salinity s (PSU)
// at temperature t (°C).
func Density(s, t float64) float64 {
	return FreshwaterDensity(t) + 0.824493*s - 0.0040899*t*s + 0.000076438*t*t*s
}

// Anomaly returns sigma-t, the density minus 1000 kg/m³.
func Anomaly(s, t float64) float64 {
	return Density(s, t) - 1000
}

// SpecificGravity returns the density relative to 1000 kg/m³.
func SpecificGravity(s, t float64) float64 {
	return Density(s, t) / 1000
}

// Quantity selects which density framing a grid is evaluated in.
type Quantity int

const (
	QuantityDensity Quantity = iota
	QuantityAnomaly
	QuantitySpecificGravity
)

func (q Quantity) String() string {
	switch q {
	case QuantityDensity:
		return "density"
	case QuantityAnomaly:
		return "anomaly"
	case QuantitySpecificGravity:
		return "specific_gravity"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// ParseQuantity maps a configuration string onto a Quantity.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "density", "rho":
		return QuantityDensity, nil
	case "anomaly", "sigma_t", "sigma-t", "sigmat":
		return QuantityAnomaly, nil
	case "specific_gravity", "specific-gravity", "sg":
		return QuantitySpecificGravity, nil
	}
	return QuantityDensity, fmt.Errorf("unknown density quantity %q", s)
}

// Eval evaluates the quantity at a single point.
func (q Quantity) Eval(s, t float64) float64 {
	switch q {
	case QuantityAnomaly:
		return Anomaly(s, t)
	case QuantitySpecificGravity:
		return SpecificGravity(s, t)
	default:
		return Density(s, t)
	}
}

// Grid evaluates q over the mesh spanned by the salinity and temperature
// axes. Row i of the result corresponds to temperature[i], column j to
// salinity[j].
func Grid(salinity, temperature []float64, q Quantity) *mat.Dense {
	g := mat.NewDense(len(temperature), len(salinity), nil)
	g.Apply(func(i, j int, _ float64) float64 {
		return q.Eval(salinity[j], temperature[i])
	}, g)
	return g
}
