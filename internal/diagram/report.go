package diagram

import (
	"errors"
	"fmt"

	"github.com/chrissnell/tsdiagram/internal/profile"
)

// Report is the outcome of one render request: the scene, if one could be
// built, and every diagnostic raised along the way.
type Report struct {
	Scene       *Scene               `json:"scene,omitempty"`
	Diagnostics []profile.Diagnostic `json:"diagnostics"`
}

// Render parses the uploads and builds a scene from whichever files are
// usable. It never fails outright: with no uploads, or no usable profile,
// the report carries an informational diagnostic and no scene.
func Render(uploads []profile.Upload, opts Options) Report {
	opts = opts.withDefaults()

	if len(uploads) == 0 {
		return Report{
			Diagnostics: []profile.Diagnostic{{
				Severity: profile.SeverityInfo,
				Kind:     profile.KindPlaceholder,
				Message:  opts.Labels.Placeholder,
			}},
		}
	}

	profiles, diags := profile.LoadAll(uploads, opts.Labels)
	report := Report{Diagnostics: diags}
	if report.Diagnostics == nil {
		report.Diagnostics = []profile.Diagnostic{}
	}

	scene, err := Build(profiles, opts)
	if errors.Is(err, ErrTooManyLevels) || errors.Is(err, ErrNonFiniteRange) {
		report.Diagnostics = append(report.Diagnostics, profile.Diagnostic{
			Severity: profile.SeverityWarning,
			Kind:     profile.KindOutOfRange,
			Message:  fmt.Sprintf(opts.Labels.OutOfRange, MaxLevels),
		})
		return report
	}
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, profile.Diagnostic{
			Severity: profile.SeverityInfo,
			Kind:     profile.KindNoValidProfiles,
			Message:  opts.Labels.NoValid,
		})
		return report
	}
	report.Scene = scene

	return report
}

// HasScene reports whether the request produced something to draw.
func (r Report) HasScene() bool {
	return r.Scene != nil
}
