// Package profile loads depth/temperature/salinity profiles from CSV uploads.
package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Required column names, compared after trimming and lower-casing the header.
const (
	ColumnDepth       = "depth"
	ColumnTemperature = "temperature"
	ColumnSalinity    = "salinity"
)

// RequiredColumns lists the columns every profile CSV must carry.
var RequiredColumns = []string{ColumnDepth, ColumnTemperature, ColumnSalinity}

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrParse          = errors.New("unable to parse CSV")
	ErrEmptyProfile   = errors.New("profile has no valid samples")
)

// Sample is a single observation in a water-column profile.
type Sample struct {
	Depth       float64 `json:"depth"`
	Temperature float64 `json:"temperature"`
	Salinity    float64 `json:"salinity"`
}

// Profile is a named sequence of samples sorted by increasing depth.
type Profile struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// Salinities returns the salinity of every sample in depth order.
func (p Profile) Salinities() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Salinity
	}
	return out
}

// Temperatures returns the temperature of every sample in depth order.
func (p Profile) Temperatures() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Temperature
	}
	return out
}

// MissingColumnsError reports which required columns a file lacks.
type MissingColumnsError struct {
	File    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// ParseError reports a file that could not be read as a profile CSV.
// Line is zero when the failure is not tied to a particular line.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parse reads a CSV profile. Extra columns are ignored. Rows with a blank
// required cell, a negative depth or a non-finite value are skipped; any
// other malformed cell fails the whole file.
func Parse(name string, r io.Reader) (Profile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Profile{}, &ParseError{File: name, Err: errors.New("file is empty")}
	}
	if err != nil {
		return Profile{}, &ParseError{File: name, Err: err}
	}

	index := columnIndex(header)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Profile{}, &MissingColumnsError{File: name, Missing: missing}
	}

	p := Profile{Name: name}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Profile{}, &ParseError{File: name, Err: err}
		}
		line, _ := cr.FieldPos(0)

		var vals [3]float64
		blank := false
		for k, col := range RequiredColumns {
			i := index[col]
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				blank = true
				break
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return Profile{}, &ParseError{File: name, Line: line, Err: fmt.Errorf("column %s: %w", col, err)}
			}
			vals[k] = v
		}
		if blank {
			continue
		}

		s := Sample{Depth: vals[0], Temperature: vals[1], Salinity: vals[2]}
		if !s.valid() {
			continue
		}
		p.Samples = append(p.Samples, s)
	}

	if len(p.Samples) == 0 {
		return Profile{}, fmt.Errorf("%s: %w", name, ErrEmptyProfile)
	}

	sort.SliceStable(p.Samples, func(i, j int) bool {
		return p.Samples[i].Depth < p.Samples[j].Depth
	})
	return p, nil
}

func (s Sample) valid() bool {
	for _, v := range []float64{s.Depth, s.Temperature, s.Salinity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Depth >= 0
}

// columnIndex maps normalized header names to their position. When two
// headers normalize to the same name the later one wins.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}
