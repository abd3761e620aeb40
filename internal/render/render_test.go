package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/chrissnell/tsdiagram/internal/diagram"
	"github.com/chrissnell/tsdiagram/internal/locale"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/pkg/config"
)

func testScene(t *testing.T, invert bool) *diagram.Scene {
	t.Helper()
	opts := diagram.DefaultOptions()
	opts.Resolution = 30
	opts.InvertTemperature = invert

	scene, err := diagram.Build([]profile.Profile{
		{
			Name: "a.csv",
			Samples: []profile.Sample{
				{Depth: 0, Temperature: 10, Salinity: 33},
				{Depth: 10, Temperature: 9, Salinity: 33.2},
				{Depth: 20, Temperature: 8, Salinity: 33.5},
			},
		},
		{
			Name:    "b.csv",
			Samples: []profile.Sample{{Depth: 0, Temperature: 12, Salinity: 34}},
		},
	}, opts)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return scene
}

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		format string
		magic  string
	}{
		{format: "png", magic: "\x89PNG"},
		{format: "svg", magic: "<?xml"},
		{format: "pdf", magic: "%PDF"},
	}

	r := New(DefaultOptions())
	scene := testScene(t, false)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Render(&buf, scene, tt.format); err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.magic) {
				t.Errorf("output does not start with %q", tt.magic)
			}
		})
	}
}

func TestRenderInvertedAxis(t *testing.T) {
	r := New(DefaultOptions())
	var buf bytes.Buffer
	if err := r.Render(&buf, testScene(t, true), "svg"); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty output")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := New(DefaultOptions())
	if err := r.Render(&bytes.Buffer{}, testScene(t, false), "bmp"); err == nil {
		t.Error("expected error for bmp")
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	opts := DefaultOptions()
	opts.FontPath = filepath.Join(t.TempDir(), "NanumGothic.ttf")

	r := New(opts)
	if r.FontErr() == nil {
		t.Fatal("expected font error")
	}
	d := r.FontDiagnostic(locale.Korean)
	if d == nil || d.Kind != profile.KindFontMissing || d.Severity != profile.SeverityWarning {
		t.Fatalf("FontDiagnostic = %+v", d)
	}
	if !strings.Contains(d.Message, "NanumGothic.ttf") {
		t.Errorf("message = %q", d.Message)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, testScene(t, false), "png"); err != nil {
		t.Fatalf("Render with fallback font error: %v", err)
	}
}

func TestInvalidFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.FontPath = path
	if New(opts).FontErr() == nil {
		t.Error("expected parse error for junk font")
	}
}

func TestNoFontDiagnosticWhenUnset(t *testing.T) {
	if d := New(DefaultOptions()).FontDiagnostic(locale.English); d != nil {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}

func TestContentType(t *testing.T) {
	if ct, ok := ContentType("PNG"); !ok || ct != "image/png" {
		t.Errorf("ContentType(PNG) = %q, %v", ct, ok)
	}
	if _, ok := ContentType("gif"); ok {
		t.Error("gif should not be supported")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.RenderData{WidthIn: 10, FontPath: "x.ttf"})
	if opts.Width != 10*vg.Inch {
		t.Errorf("Width = %v", opts.Width)
	}
	if opts.Height != DefaultOptions().Height || opts.FontSize != DefaultOptions().FontSize {
		t.Errorf("defaults not kept: %+v", opts)
	}
	if opts.FontPath != "x.ttf" || !opts.Grid {
		t.Errorf("opts = %+v", opts)
	}
}
