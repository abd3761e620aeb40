package diagram

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

// Padding applied around the observed data when sizing the density grid.
const (
	SalinityMargin    = 0.5 // PSU
	TemperatureMargin = 1.0 // °C
)

// Domain is the salinity/temperature rectangle the density grid covers.
type Domain struct {
	SalinityMin    float64 `json:"salinity_min"`
	SalinityMax    float64 `json:"salinity_max"`
	TemperatureMin float64 `json:"temperature_min"`
	TemperatureMax float64 `json:"temperature_max"`
}

// DomainOf returns the padded bounds of every sample in profiles. All
// profiles must be non-empty and at least one must be given.
func DomainOf(profiles []profile.Profile) Domain {
	var sal, temp []float64
	for _, p := range profiles {
		sal = append(sal, p.Salinities()...)
		temp = append(temp, p.Temperatures()...)
	}

	return Domain{
		SalinityMin:    floats.Min(sal) - SalinityMargin,
		SalinityMax:    floats.Max(sal) + SalinityMargin,
		TemperatureMin: floats.Min(temp) - TemperatureMargin,
		TemperatureMax: floats.Max(temp) + TemperatureMargin,
	}
}

// Field is a density quantity sampled on a regular salinity/temperature
// mesh. Values has one row per temperature and one column per salinity.
type Field struct {
	Salinity    []float64
	Temperature []float64
	Values      *mat.Dense
	Quantity    seawater.Quantity
	Min         float64
	Max         float64
}

// NewField evaluates q on a resolution×resolution mesh over d.
// resolution must be at least 2.
func NewField(d Domain, resolution int, q seawater.Quantity) *Field {
	sal := floats.Span(make([]float64, resolution), d.SalinityMin, d.SalinityMax)
	temp := floats.Span(make([]float64, resolution), d.TemperatureMin, d.TemperatureMax)
	// pin the far edges so the axes end exactly on the domain bounds
	sal[resolution-1], temp[resolution-1] = d.SalinityMax, d.TemperatureMax

	values := seawater.Grid(sal, temp, q)
	raw := values.RawMatrix().Data

	return &Field{
		Salinity:    sal,
		Temperature: temp,
		Values:      values,
		Quantity:    q,
		Min:         floats.Min(raw),
		Max:         floats.Max(raw),
	}
}

// Finite reports whether every field value is a finite number.
func (f *Field) Finite() bool {
	for _, v := range f.Values.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
