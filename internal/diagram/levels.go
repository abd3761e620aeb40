package diagram

import (
	"errors"
	"fmt"
	"math"

	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

// MaxLevels bounds how many isopycnals a policy may produce for one scene.
const MaxLevels = 200

var (
	// ErrTooManyLevels is returned when a policy would exceed MaxLevels.
	ErrTooManyLevels = errors.New("too many contour levels")
	// ErrNonFiniteRange is returned when the field holds NaN or infinite values.
	ErrNonFiniteRange = errors.New("density range is not finite")
)

// LevelPolicy decides the density thresholds at which isopycnals are drawn.
type LevelPolicy interface {
	// Levels returns the ascending contour levels for a field spanning [min, max].
	Levels(min, max float64) ([]float64, error)
	// Format renders a level as a contour label.
	Format(level float64) string
}

// FixedStep yields Min, Min+Step, ... up to but excluding Max, regardless
// of the data. A level within rounding error of Max is excluded too.
type FixedStep struct {
	Min       float64
	Max       float64
	Step      float64
	Precision int
}

func (f FixedStep) Levels(_, _ float64) ([]float64, error) {
	if f.Step <= 0 || f.Max <= f.Min {
		return nil, nil
	}
	n, err := levelCount(0, math.Ceil((f.Max-f.Min)/f.Step-1e-9)-1)
	if err != nil {
		return nil, err
	}
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = f.Min + float64(i)*f.Step
	}
	return levels, nil
}

func (f FixedStep) Format(level float64) string {
	return formatLevel(level, f.Precision)
}

// DataDerived spans the field's own range, widened outward to whole
// multiples of Step. Both ends are included.
type DataDerived struct {
	Step      float64
	Precision int
}

func (d DataDerived) Levels(min, max float64) ([]float64, error) {
	if d.Step <= 0 || max < min {
		return nil, nil
	}

	// When Step is the reciprocal of a whole number, work in multiples of
	// that number (floor(min*1000)/1000 for 0.001) so levels land on
	// exact decimals.
	scale := func(k float64) float64 { return k * d.Step }
	lo, hi := math.Floor(min/d.Step), math.Ceil(max/d.Step)
	if inv := math.Round(1 / d.Step); inv > 1 && math.Abs(inv*d.Step-1) < 1e-12 {
		scale = func(k float64) float64 { return k / inv }
		lo, hi = math.Floor(min*inv), math.Ceil(max*inv)
	}

	n, err := levelCount(lo, hi)
	if err != nil {
		return nil, err
	}
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = scale(lo + float64(i))
	}
	return levels, nil
}

// levelCount returns the number of whole steps in [lo, hi], both given as
// step indices. It fails before anything is allocated when the bounds are
// not finite or the count would exceed MaxLevels.
func levelCount(lo, hi float64) (int, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("%w: [%g, %g]", ErrNonFiniteRange, lo, hi)
	}
	span := hi - lo
	if span < 0 {
		return 0, nil
	}
	if span >= MaxLevels {
		return 0, fmt.Errorf("%w: %.0f requested, limit is %d", ErrTooManyLevels, span+1, MaxLevels)
	}
	return int(span) + 1, nil
}

func (d DataDerived) Format(level float64) string {
	return formatLevel(level, d.Precision)
}

func formatLevel(level float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return fmt.Sprintf("%.*f", precision, level)
}

// FixedLevels returns the fixed-range policy conventionally used for q.
func FixedLevels(q seawater.Quantity) FixedStep {
	switch q {
	case seawater.QuantitySpecificGravity:
		return FixedStep{Min: 1.020, Max: 1.030, Step: 0.001, Precision: 3}
	case seawater.QuantityAnomaly:
		return FixedStep{Min: 20, Max: 30, Step: 0.5, Precision: 1}
	default:
		return FixedStep{Min: 1020, Max: 1030, Step: 0.5, Precision: 1}
	}
}

// DerivedLevels returns the data-derived policy conventionally used for q.
func DerivedLevels(q seawater.Quantity) DataDerived {
	if q == seawater.QuantitySpecificGravity {
		return DataDerived{Step: 0.001, Precision: 3}
	}
	return DataDerived{Step: 0.5, Precision: 1}
}

// DefaultLevelPolicy returns the level policy each density framing is
// normally drawn with: data-derived for specific gravity, fixed otherwise.
func DefaultLevelPolicy(q seawater.Quantity) LevelPolicy {
	if q == seawater.QuantitySpecificGravity {
		return DerivedLevels(q)
	}
	return FixedLevels(q)
}
