// Package diagram assembles temperature-salinity diagrams: a density field
// over the data's T-S range, isopycnal contours through it and one trace
// per uploaded profile.
package diagram

import (
	"errors"
	"fmt"

	"github.com/chrissnell/tsdiagram/internal/locale"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

// DefaultResolution is the number of grid nodes along each axis.
const DefaultResolution = 100

// ErrNoValidProfiles is returned when there is nothing to plot.
var ErrNoValidProfiles = errors.New("no valid profiles")

// DefaultPalette is the ten-colour category cycle traces are drawn with.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Options controls how a scene is built.
type Options struct {
	Resolution        int
	Quantity          seawater.Quantity
	Levels            LevelPolicy
	Palette           []string
	InvertTemperature bool
	Labels            locale.Labels
}

// DefaultOptions draws specific-gravity isopycnals every 0.001 across the
// data's own range.
func DefaultOptions() Options {
	return Options{
		Resolution: DefaultResolution,
		Quantity:   seawater.QuantitySpecificGravity,
		Levels:     DefaultLevelPolicy(seawater.QuantitySpecificGravity),
		Palette:    DefaultPalette,
		Labels:     locale.English,
	}
}

// AnomalyOptions draws sigma-t isopycnals from 20 to 30 every 0.5.
func AnomalyOptions() Options {
	return Options{
		Resolution: DefaultResolution,
		Quantity:   seawater.QuantityAnomaly,
		Levels:     DefaultLevelPolicy(seawater.QuantityAnomaly),
		Palette:    DefaultPalette,
		Labels:     locale.English,
	}
}

func (o Options) withDefaults() Options {
	if o.Resolution < 2 {
		o.Resolution = DefaultResolution
	}
	if o.Levels == nil {
		o.Levels = DefaultLevelPolicy(o.Quantity)
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}
	if o.Labels.Tag == "" {
		o.Labels = locale.English
	}
	return o
}

// Isoline is the geometry of one contour level.
type Isoline struct {
	Level    float64   `json:"level"`
	Label    string    `json:"label"`
	LabelAt  Point     `json:"label_at"`
	Segments [][]Point `json:"segments"`
}

// TracePoint is one sample of a profile placed on the diagram.
type TracePoint struct {
	Salinity    float64 `json:"salinity"`
	Temperature float64 `json:"temperature"`
	Depth       float64 `json:"depth"`
	Label       string  `json:"label"`
}

// Trace is the polyline of a single profile.
type Trace struct {
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Points []TracePoint `json:"points"`
}

// Scene is everything a renderer needs to draw a T-S diagram.
type Scene struct {
	Title             string    `json:"title"`
	XLabel            string    `json:"x_label"`
	YLabel            string    `json:"y_label"`
	Quantity          string    `json:"quantity"`
	InvertTemperature bool      `json:"invert_temperature"`
	Domain            Domain    `json:"domain"`
	Levels            []float64 `json:"levels"`
	Isolines          []Isoline `json:"isolines"`
	Traces            []Trace   `json:"traces"`

	Field *Field `json:"-"`
}

// Build computes the density field over the profiles' combined range and
// lays out contours and traces. Profiles without samples are ignored;
// ErrNoValidProfiles is returned if none remain.
func Build(profiles []profile.Profile, opts Options) (*Scene, error) {
	opts = opts.withDefaults()

	var valid []profile.Profile
	for _, p := range profiles {
		if len(p.Samples) > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidProfiles
	}

	domain := DomainOf(valid)
	field := NewField(domain, opts.Resolution, opts.Quantity)
	if !field.Finite() {
		return nil, fmt.Errorf("%w: salinity %g..%g, temperature %g..%g", ErrNonFiniteRange,
			domain.SalinityMin, domain.SalinityMax, domain.TemperatureMin, domain.TemperatureMax)
	}
	levels, err := opts.Levels.Levels(field.Min, field.Max)
	if err != nil {
		return nil, err
	}

	scene := &Scene{
		Title:             opts.Labels.Title,
		XLabel:            opts.Labels.XLabel,
		YLabel:            opts.Labels.YLabel,
		Quantity:          opts.Quantity.String(),
		InvertTemperature: opts.InvertTemperature,
		Domain:            domain,
		Levels:            levels,
		Field:             field,
	}

	for _, level := range scene.Levels {
		paths := field.Isoline(level)
		if len(paths) == 0 {
			continue
		}
		scene.Isolines = append(scene.Isolines, Isoline{
			Level:    level,
			Label:    opts.Levels.Format(level),
			LabelAt:  labelAnchor(paths),
			Segments: paths,
		})
	}

	for i, p := range valid {
		scene.Traces = append(scene.Traces, newTrace(p, opts.Palette[i%len(opts.Palette)], opts.Labels.DepthUnit))
	}

	return scene, nil
}

func newTrace(p profile.Profile, color, unit string) Trace {
	t := Trace{
		Name:   p.Name,
		Color:  color,
		Points: make([]TracePoint, len(p.Samples)),
	}
	for i, s := range p.Samples {
		t.Points[i] = TracePoint{
			Salinity:    s.Salinity,
			Temperature: s.Temperature,
			Depth:       s.Depth,
			Label:       fmt.Sprintf("%d%s", int(s.Depth), unit),
		}
	}
	return t
}
