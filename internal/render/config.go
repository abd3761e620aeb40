package render

import (
	"gonum.org/v1/plot/vg"

	"github.com/chrissnell/tsdiagram/pkg/config"
)

// OptionsFromConfig converts the render section of the configuration.
// Zero values fall back to DefaultOptions.
func OptionsFromConfig(c config.RenderData) Options {
	opts := DefaultOptions()
	if c.WidthIn > 0 {
		opts.Width = vg.Length(c.WidthIn) * vg.Inch
	}
	if c.HeightIn > 0 {
		opts.Height = vg.Length(c.HeightIn) * vg.Inch
	}
	if c.FontSize > 0 {
		opts.FontSize = vg.Points(c.FontSize)
	}
	opts.FontPath = c.FontPath
	return opts
}
