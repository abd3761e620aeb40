package diagram

import (
	"errors"
	"math"
	"testing"

	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

func levelsOf(t *testing.T, p LevelPolicy, min, max float64) []float64 {
	t.Helper()
	levels, err := p.Levels(min, max)
	if err != nil {
		t.Fatalf("Levels(%v, %v) error: %v", min, max, err)
	}
	return levels
}

func TestFixedStepHalfOpen(t *testing.T) {
	levels := levelsOf(t, FixedStep{Min: 20, Max: 30, Step: 0.5, Precision: 1}, 0, 0)

	if len(levels) != 20 {
		t.Fatalf("got %d levels, expected 20", len(levels))
	}
	if levels[0] != 20.0 {
		t.Errorf("first level = %v, expected 20", levels[0])
	}
	if levels[len(levels)-1] != 29.5 {
		t.Errorf("last level = %v, expected 29.5", levels[len(levels)-1])
	}
	for i := 1; i < len(levels); i++ {
		if math.Abs(levels[i]-levels[i-1]-0.5) > 1e-12 {
			t.Errorf("step between %d and %d = %v", i-1, i, levels[i]-levels[i-1])
		}
	}
}

func TestFixedStepIgnoresData(t *testing.T) {
	p := FixedStep{Min: 20, Max: 30, Step: 0.5}
	a := levelsOf(t, p, 1, 2)
	b := levelsOf(t, p, 25, 27)
	if len(a) != len(b) {
		t.Errorf("levels depend on data range: %d vs %d", len(a), len(b))
	}
}

func TestFixedStepDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		policy FixedStep
	}{
		{name: "zero step", policy: FixedStep{Min: 20, Max: 30}},
		{name: "negative step", policy: FixedStep{Min: 20, Max: 30, Step: -1}},
		{name: "empty range", policy: FixedStep{Min: 30, Max: 30, Step: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelsOf(t, tt.policy, 0, 0); len(got) != 0 {
				t.Errorf("Levels = %v, expected none", got)
			}
		})
	}
}

func TestDataDerived(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		expected []float64
	}{
		{
			name:     "widens to whole steps",
			min:      1.02437,
			max:      1.02712,
			expected: []float64{1.024, 1.025, 1.026, 1.027, 1.028},
		},
		{
			name:     "exact bounds",
			min:      1.024,
			max:      1.026,
			expected: []float64{1.024, 1.025, 1.026},
		},
		{
			name:     "single interval",
			min:      1.0251,
			max:      1.0259,
			expected: []float64{1.025, 1.026},
		},
	}

	p := DataDerived{Step: 0.001, Precision: 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levelsOf(t, p, tt.min, tt.max)
			if len(got) != len(tt.expected) {
				t.Fatalf("Levels(%v,%v) = %v, expected %v", tt.min, tt.max, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("level %d = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := (DataDerived{Step: 0.001, Precision: 3}).Format(1.025); got != "1.025" {
		t.Errorf("DataDerived.Format = %q", got)
	}
	if got := (FixedStep{Min: 20, Max: 30, Step: 0.5, Precision: 1}).Format(24.5); got != "24.5" {
		t.Errorf("FixedStep.Format = %q", got)
	}
	if got := (FixedStep{Precision: -1}).Format(24.5); got != "24" {
		t.Errorf("negative precision Format = %q", got)
	}
}

func TestDefaultLevelPolicy(t *testing.T) {
	if _, ok := DefaultLevelPolicy(seawater.QuantitySpecificGravity).(DataDerived); !ok {
		t.Error("specific gravity should default to data-derived levels")
	}
	fs, ok := DefaultLevelPolicy(seawater.QuantityAnomaly).(FixedStep)
	if !ok || fs.Min != 20 || fs.Max != 30 || fs.Step != 0.5 {
		t.Errorf("anomaly default = %+v", fs)
	}
}

func TestFixedStepExcludesMaxDespiteRounding(t *testing.T) {
	levels := levelsOf(t, FixedLevels(seawater.QuantitySpecificGravity), 0, 0)
	if len(levels) != 10 {
		t.Fatalf("got %d levels, expected 10: %v", len(levels), levels)
	}
	if math.Abs(levels[9]-1.029) > 1e-12 {
		t.Errorf("last level = %v, expected 1.029", levels[9])
	}
}

func TestLevelLimits(t *testing.T) {
	sg := DerivedLevels(seawater.QuantitySpecificGravity)
	sigma := DerivedLevels(seawater.QuantityAnomaly)

	tests := []struct {
		name     string
		policy   LevelPolicy
		min, max float64
		expected error
	}{
		{name: "huge derived range", policy: sg, min: seawater.SpecificGravity(1e20, 11), max: seawater.SpecificGravity(1e20, 9), expected: ErrTooManyLevels},
		{name: "wide derived range", policy: sg, min: 1.0, max: 1.5, expected: ErrTooManyLevels},
		{name: "wide half-unit step", policy: sigma, min: 0, max: 1e6, expected: ErrTooManyLevels},
		{name: "overflowing range", policy: DataDerived{Step: 1}, min: -math.MaxFloat64, max: math.MaxFloat64, expected: ErrTooManyLevels},
		{name: "nan bound", policy: sg, min: math.NaN(), max: 1.02, expected: ErrNonFiniteRange},
		{name: "infinite bound", policy: sigma, min: 20, max: math.Inf(1), expected: ErrNonFiniteRange},
		{name: "tiny fixed step", policy: FixedStep{Min: 20, Max: 30, Step: 1e-6}, expected: ErrTooManyLevels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, err := tt.policy.Levels(tt.min, tt.max)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("err = %v, expected %v", err, tt.expected)
			}
			if levels != nil {
				t.Errorf("got %d levels alongside an error", len(levels))
			}
		})
	}
}

func TestLevelLimitBoundary(t *testing.T) {
	p := DataDerived{Step: 1, Precision: 0}

	levels := levelsOf(t, p, 0, MaxLevels-1)
	if len(levels) != MaxLevels {
		t.Errorf("got %d levels, expected %d", len(levels), MaxLevels)
	}
	if _, err := p.Levels(0, MaxLevels); !errors.Is(err, ErrTooManyLevels) {
		t.Errorf("err = %v, expected ErrTooManyLevels past the limit", err)
	}
}
