package profile

import (
	"errors"
	"fmt"
	"io"

	"github.com/chrissnell/tsdiagram/internal/locale"
)

// Severity of a diagnostic shown next to the diagram.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindPlaceholder     Kind = "placeholder"
	KindNoValidProfiles Kind = "no_valid_profiles"
	KindMissingColumns  Kind = "missing_columns"
	KindParse           Kind = "parse_error"
	KindEmptyProfile    Kind = "empty_profile"
	KindFontMissing     Kind = "font_missing"
	KindOutOfRange      Kind = "out_of_range"
)

// Diagnostic is a user-visible message about one upload or about the request as a whole.
type Diagnostic struct {
	File     string   `json:"file,omitempty"`
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
}

// Upload is one named CSV file handed over by the UI.
type Upload struct {
	Name string
	Data io.Reader
}

// LoadAll parses every upload independently. A file that fails produces a
// diagnostic and is left out; the remaining files are still loaded.
func LoadAll(uploads []Upload, labels locale.Labels) ([]Profile, []Diagnostic) {
	var (
		profiles []Profile
		diags    []Diagnostic
	)

	for _, u := range uploads {
		p, err := Parse(u.Name, u.Data)
		if err != nil {
			diags = append(diags, Diagnose(u.Name, err, labels))
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles, diags
}

// Diagnose turns a Parse error into a diagnostic for the named file.
func Diagnose(name string, err error, labels locale.Labels) Diagnostic {
	switch {
	case errors.Is(err, ErrMissingColumns):
		return Diagnostic{
			File:     name,
			Severity: SeverityWarning,
			Kind:     KindMissingColumns,
			Message:  fmt.Sprintf(labels.MissingColumns, name),
		}
	case errors.Is(err, ErrEmptyProfile):
		return Diagnostic{
			File:     name,
			Severity: SeverityWarning,
			Kind:     KindEmptyProfile,
			Message:  fmt.Sprintf(labels.EmptyProfile, name),
		}
	default:
		var pe *ParseError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return Diagnostic{
			File:     name,
			Severity: SeverityError,
			Kind:     KindParse,
			Message:  fmt.Sprintf(labels.ReadFailed, name, err),
		}
	}
}
