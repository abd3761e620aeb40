package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/chrissnell/tsdiagram/internal/locale"
)

func TestParseNormalizesHeader(t *testing.T) {
	csv := "DEPTH, Temperature , SALINITY\n0,10,33\n10,9,33.2\n20,8,33.5\n"

	p, err := Parse("cast.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Name != "cast.csv" {
		t.Errorf("Name = %q, expected cast.csv", p.Name)
	}

	expected := []Sample{
		{Depth: 0, Temperature: 10, Salinity: 33},
		{Depth: 10, Temperature: 9, Salinity: 33.2},
		{Depth: 20, Temperature: 8, Salinity: 33.5},
	}
	if len(p.Samples) != len(expected) {
		t.Fatalf("got %d samples, expected %d", len(p.Samples), len(expected))
	}
	for i := range expected {
		if p.Samples[i] != expected[i] {
			t.Errorf("sample %d = %+v, expected %+v", i, p.Samples[i], expected[i])
		}
	}
}

func TestParseColumnOrderAndExtras(t *testing.T) {
	csv := "station,salinity,depth,oxygen,temperature\nA,34.1,50,5.1,6.5\nA,33.9,0,6.0,12.0\n"

	p, err := Parse("extra.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(p.Samples) != 2 {
		t.Fatalf("got %d samples, expected 2", len(p.Samples))
	}
	// sorted by depth
	if p.Samples[0] != (Sample{Depth: 0, Temperature: 12, Salinity: 33.9}) {
		t.Errorf("first sample = %+v", p.Samples[0])
	}
	if p.Samples[1] != (Sample{Depth: 50, Temperature: 6.5, Salinity: 34.1}) {
		t.Errorf("second sample = %+v", p.Samples[1])
	}
}

func TestParseSortIsStable(t *testing.T) {
	csv := "depth,temperature,salinity\n10,5,34\n0,9,33\n10,6,34.5\n"

	p, err := Parse("dup.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Samples[1].Temperature != 5 || p.Samples[2].Temperature != 6 {
		t.Errorf("equal depths reordered: %+v", p.Samples)
	}
}

func TestParseByteOrderMark(t *testing.T) {
	csv := "\ufeffDepth,Temperature,Salinity\n0,10,33\n"
	if _, err := Parse("bom.csv", strings.NewReader(csv)); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
}

func TestParseSkipsUnusableRows(t *testing.T) {
	csv := "depth,temperature,salinity\n0,10,33\n5,,33.1\n-3,11,33\n10,NaN,33\n20,8,33.5\n"

	p, err := Parse("gaps.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(p.Samples) != 2 {
		t.Fatalf("got %d samples, expected 2: %+v", len(p.Samples), p.Samples)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		expected error
	}{
		{name: "missing salinity", csv: "depth,temperature\n0,10\n", expected: ErrMissingColumns},
		{name: "empty file", csv: "", expected: ErrParse},
		{name: "non numeric", csv: "depth,temperature,salinity\n0,warm,33\n", expected: ErrParse},
		{name: "bad quoting", csv: "depth,temperature,salinity\n0,\"10,33\n", expected: ErrParse},
		{name: "header only", csv: "depth,temperature,salinity\n", expected: ErrEmptyProfile},
		{name: "all rows blank", csv: "depth,temperature,salinity\n,,\n", expected: ErrEmptyProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("f.csv", strings.NewReader(tt.csv))
			if !errors.Is(err, tt.expected) {
				t.Errorf("Parse error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestMissingColumnsErrorListsColumns(t *testing.T) {
	_, err := Parse("f.csv", strings.NewReader("Depth\n1\n"))

	var mce *MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if strings.Join(mce.Missing, ",") != "temperature,salinity" {
		t.Errorf("Missing = %v", mce.Missing)
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, err := Parse("f.csv", strings.NewReader("depth,temperature,salinity\n0,10,33\n5,x,33\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Errorf("Line = %d, expected 3", pe.Line)
	}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	uploads := []Upload{
		{Name: "good.csv", Data: strings.NewReader("depth,temperature,salinity\n0,10,33\n")},
		{Name: "nosal.csv", Data: strings.NewReader("depth,temperature\n0,10\n")},
		{Name: "broken.csv", Data: strings.NewReader("depth,temperature,salinity\n0,abc,33\n")},
		{Name: "good2.csv", Data: strings.NewReader("depth,temperature,salinity\n0,12,34\n")},
	}

	profiles, diags := LoadAll(uploads, locale.English)
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, expected 2", len(profiles))
	}
	if profiles[0].Name != "good.csv" || profiles[1].Name != "good2.csv" {
		t.Errorf("profile order = %q, %q", profiles[0].Name, profiles[1].Name)
	}
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, expected 2", len(diags))
	}
	if diags[0].Kind != KindMissingColumns || diags[0].Severity != SeverityWarning || diags[0].File != "nosal.csv" {
		t.Errorf("first diagnostic = %+v", diags[0])
	}
	if diags[1].Kind != KindParse || diags[1].Severity != SeverityError || diags[1].File != "broken.csv" {
		t.Errorf("second diagnostic = %+v", diags[1])
	}
}

func TestDiagnoseLocalized(t *testing.T) {
	d := Diagnose("a.csv", &MissingColumnsError{File: "a.csv", Missing: []string{"salinity"}}, locale.Korean)
	if !strings.Contains(d.Message, "'a.csv' 파일에는") {
		t.Errorf("Message = %q", d.Message)
	}
}
