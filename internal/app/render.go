package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/tsdiagram/internal/diagram"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/internal/render"
	"github.com/chrissnell/tsdiagram/pkg/config"
)

// RenderFiles draws the CSV profiles at paths into a single image at out.
// The image format follows the extension of out. The diagnostics are
// returned even when no image could be written.
func RenderFiles(cfgData *config.ConfigData, paths []string, out string) ([]profile.Diagnostic, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(out), "."))
	if _, ok := render.ContentType(format); !ok {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	opts, err := diagram.OptionsFromConfig(cfgData.Diagram)
	if err != nil {
		return nil, fmt.Errorf("invalid diagram configuration: %w", err)
	}

	uploads := make([]profile.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			// a file that cannot be read is reported like a bad upload
			uploads = append(uploads, profile.Upload{Name: filepath.Base(path), Data: errReader{err}})
			continue
		}
		uploads = append(uploads, profile.Upload{Name: filepath.Base(path), Data: bytes.NewReader(data)})
	}

	report := diagram.Render(uploads, opts)

	renderer := render.New(render.OptionsFromConfig(cfgData.Render))
	if d := renderer.FontDiagnostic(opts.Labels); d != nil {
		report.Diagnostics = append(report.Diagnostics, *d)
	}

	if !report.HasScene() {
		return report.Diagnostics, diagram.ErrNoValidProfiles
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, report.Scene, format); err != nil {
		return report.Diagnostics, err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return report.Diagnostics, fmt.Errorf("error writing %s: %w", out, err)
	}

	return report.Diagnostics, nil
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
