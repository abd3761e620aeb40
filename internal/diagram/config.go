package diagram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chrissnell/tsdiagram/internal/locale"
	"github.com/chrissnell/tsdiagram/pkg/config"
	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

// OptionsFromConfig translates the diagram section of the configuration
// into build options.
func OptionsFromConfig(c config.DiagramData) (Options, error) {
	q := seawater.QuantitySpecificGravity
	if c.Quantity != "" {
		var err error
		if q, err = seawater.ParseQuantity(c.Quantity); err != nil {
			return Options{}, err
		}
	}

	levels, err := levelPolicyFromConfig(c, q)
	if err != nil {
		return Options{}, err
	}

	for _, hex := range c.Palette {
		if _, err := config.ParseHexColor(hex); err != nil {
			return Options{}, fmt.Errorf("palette: %w", err)
		}
	}

	opts := Options{
		Resolution:        c.Resolution,
		Quantity:          q,
		Levels:            levels,
		Palette:           c.Palette,
		InvertTemperature: c.InvertTemperature,
		Labels:            locale.For(c.Language),
	}
	return opts.withDefaults(), nil
}

func levelPolicyFromConfig(c config.DiagramData, q seawater.Quantity) (LevelPolicy, error) {
	switch strings.ToLower(c.LevelPolicy) {
	case "":
		if q == seawater.QuantitySpecificGravity {
			return levelPolicyFromConfig(withPolicy(c, config.LevelPolicyDerived), q)
		}
		return levelPolicyFromConfig(withPolicy(c, config.LevelPolicyFixed), q)

	case config.LevelPolicyDerived:
		p := DerivedLevels(q)
		if c.LevelStep != 0 {
			if c.LevelStep < 0 {
				return nil, fmt.Errorf("invalid level step %v", c.LevelStep)
			}
			p.Step = c.LevelStep
			p.Precision = stepPrecision(c.LevelStep)
		}
		if c.LabelPrecision != nil {
			p.Precision = *c.LabelPrecision
		}
		return p, nil

	case config.LevelPolicyFixed:
		p := FixedLevels(q)
		if c.LevelStep != 0 || c.LevelMin != 0 || c.LevelMax != 0 {
			if c.LevelStep <= 0 || c.LevelMax <= c.LevelMin {
				return nil, fmt.Errorf("invalid fixed levels %v..%v step %v", c.LevelMin, c.LevelMax, c.LevelStep)
			}
			p = FixedStep{
				Min:       c.LevelMin,
				Max:       c.LevelMax,
				Step:      c.LevelStep,
				Precision: stepPrecision(c.LevelStep),
			}
		}
		if c.LabelPrecision != nil {
			p.Precision = *c.LabelPrecision
		}
		return p, nil
	}

	return nil, fmt.Errorf("unknown level policy %q", c.LevelPolicy)
}

func withPolicy(c config.DiagramData, policy string) config.DiagramData {
	c.LevelPolicy = policy
	return c
}

// stepPrecision returns enough decimals to show one step (0.001 -> 3, 0.5 -> 1).
func stepPrecision(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return min(len(s)-i-1, 6)
}
