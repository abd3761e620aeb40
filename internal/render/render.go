// Package render draws diagram scenes to image files with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/chrissnell/tsdiagram/internal/diagram"
	"github.com/chrissnell/tsdiagram/internal/locale"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/pkg/config"
)

// Image formats the renderer can produce, with their MIME types.
var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(format)]
	return ct, ok
}

// Options controls page size and typography.
type Options struct {
	Width    vg.Length
	Height   vg.Length
	FontPath string // optional TrueType/OpenType font for non-Latin labels
	FontSize vg.Length
	Grid     bool
}

// DefaultOptions is an 8x6 inch figure with a background grid.
func DefaultOptions() Options {
	return Options{
		Width:    8 * vg.Inch,
		Height:   6 * vg.Inch,
		FontSize: vg.Points(10),
		Grid:     true,
	}
}

var contourColor = color.NRGBA{R: 128, G: 128, B: 128, A: 128}

// Renderer turns scenes into images. Its font cache is private, so
// renderers with different fonts can be used side by side.
type Renderer struct {
	opts    Options
	font    font.Font
	handler text.Handler
	fontErr error
}

// New prepares a renderer. A font that cannot be loaded is not fatal: the
// built-in Liberation fonts are used instead and FontDiagnostic reports it.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}

	coll := liberation.Collection()
	r := &Renderer{
		opts: opts,
		font: font.Font{Typeface: "Liberation", Variant: "Sans"},
	}

	if opts.FontPath != "" {
		face, err := loadFace(opts.FontPath)
		if err != nil {
			r.fontErr = err
		} else {
			coll = append(coll, face)
			r.font = face.Font
		}
	}

	r.handler = text.Plain{Fonts: font.NewCache(coll)}
	return r
}

func loadFace(path string) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return font.Face{}, fmt.Errorf("could not read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return font.Face{}, fmt.Errorf("could not parse font %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return font.Face{Font: font.Font{Typeface: font.Typeface(name)}, Face: f}, nil
}

// FontErr returns the error hit while loading the configured font, if any.
func (r *Renderer) FontErr() error {
	return r.fontErr
}

// FontDiagnostic returns a warning when the configured font fell back to
// the built-in one, or nil.
func (r *Renderer) FontDiagnostic(labels locale.Labels) *profile.Diagnostic {
	if r.fontErr == nil {
		return nil
	}
	return &profile.Diagnostic{
		Severity: profile.SeverityWarning,
		Kind:     profile.KindFontMissing,
		Message:  fmt.Sprintf(labels.FontMissing, r.opts.FontPath),
	}
}

func (r *Renderer) style(s text.Style, size vg.Length) text.Style {
	s.Font = r.font
	s.Font.Size = size
	s.Handler = r.handler
	return s
}

// Plot lays the scene out on a gonum plot.
func (r *Renderer) Plot(scene *diagram.Scene) (*plot.Plot, error) {
	p := plot.New()
	base := r.opts.FontSize
	small := base * 0.8

	p.Title.Text = scene.Title
	p.Title.TextStyle = r.style(p.Title.TextStyle, base*1.2)
	p.X.Label.Text = scene.XLabel
	p.X.Label.TextStyle = r.style(p.X.Label.TextStyle, base)
	p.Y.Label.Text = scene.YLabel
	p.Y.Label.TextStyle = r.style(p.Y.Label.TextStyle, base)
	p.X.Tick.Label = r.style(p.X.Tick.Label, small)
	p.Y.Tick.Label = r.style(p.Y.Tick.Label, small)
	p.Legend.TextStyle = r.style(p.Legend.TextStyle, small)
	p.Legend.Top = true

	p.X.Min, p.X.Max = scene.Domain.SalinityMin, scene.Domain.SalinityMax
	p.Y.Min, p.Y.Max = scene.Domain.TemperatureMin, scene.Domain.TemperatureMax
	if scene.InvertTemperature {
		p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	}

	if r.opts.Grid {
		p.Add(plotter.NewGrid())
	}

	if err := r.addIsolines(p, scene, small); err != nil {
		return nil, err
	}
	for _, tr := range scene.Traces {
		if err := r.addTrace(p, tr, small); err != nil {
			return nil, fmt.Errorf("trace %s: %w", tr.Name, err)
		}
	}

	return p, nil
}

func (r *Renderer) addIsolines(p *plot.Plot, scene *diagram.Scene, size vg.Length) error {
	var (
		anchors plotter.XYs
		labels  []string
	)

	for _, iso := range scene.Isolines {
		for _, seg := range iso.Segments {
			if len(seg) < 2 {
				continue
			}
			xys := make(plotter.XYs, len(seg))
			for i, pt := range seg {
				xys[i] = plotter.XY{X: pt.Salinity, Y: pt.Temperature}
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("isoline %s: %w", iso.Label, err)
			}
			line.Color = contourColor
			line.Width = vg.Points(0.8)
			p.Add(line)
		}
		anchors = append(anchors, plotter.XY{X: iso.LabelAt.Salinity, Y: iso.LabelAt.Temperature})
		labels = append(labels, iso.Label)
	}

	if len(labels) == 0 {
		return nil
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: anchors, Labels: labels})
	if err != nil {
		return fmt.Errorf("isoline labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i] = r.style(lbl.TextStyle[i], size)
		lbl.TextStyle[i].Color = color.Gray{Y: 96}
		lbl.TextStyle[i].XAlign = text.XCenter
		lbl.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(lbl)
	return nil
}

func (r *Renderer) addTrace(p *plot.Plot, tr diagram.Trace, size vg.Length) error {
	if len(tr.Points) == 0 {
		return nil
	}
	c, err := config.ParseHexColor(tr.Color)
	if err != nil {
		return err
	}

	xys := make(plotter.XYs, len(tr.Points))
	labels := make([]string, len(tr.Points))
	for i, pt := range tr.Points {
		xys[i] = plotter.XY{X: pt.Salinity, Y: pt.Temperature}
		labels[i] = pt.Label
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)

	depth, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	depth.Offset = vg.Point{X: vg.Points(3), Y: vg.Points(2)}
	for i := range depth.TextStyle {
		depth.TextStyle[i] = r.style(depth.TextStyle[i], size)
		depth.TextStyle[i].Color = c
	}

	p.Add(line, points, depth)
	p.Legend.Add(tr.Name, line, points)
	return nil
}

// Render writes the scene to w in the given format (png, svg or pdf).
func (r *Renderer) Render(w io.Writer, scene *diagram.Scene, format string) error {
	format = strings.ToLower(format)
	if _, ok := contentTypes[format]; !ok {
		return fmt.Errorf("unsupported image format %q", format)
	}

	p, err := r.Plot(scene)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(r.opts.Width, r.opts.Height, format)
	if err != nil {
		return fmt.Errorf("could not create %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("could not write %s image: %w", format, err)
	}
	return nil
}
