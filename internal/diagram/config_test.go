package diagram

import (
	"testing"

	"github.com/chrissnell/tsdiagram/pkg/config"
	"github.com/chrissnell/tsdiagram/pkg/seawater"
)

func TestOptionsFromConfig(t *testing.T) {
	two := 2

	tests := []struct {
		name     string
		cfg      config.DiagramData
		quantity seawater.Quantity
		levels   LevelPolicy
		lang     string
		wantErr  bool
	}{
		{
			name:     "empty uses specific gravity",
			cfg:      config.DiagramData{},
			quantity: seawater.QuantitySpecificGravity,
			levels:   DataDerived{Step: 0.001, Precision: 3},
			lang:     "en",
		},
		{
			name:     "anomaly defaults to fixed 20-30",
			cfg:      config.DiagramData{Quantity: "anomaly", Language: "ko"},
			quantity: seawater.QuantityAnomaly,
			levels:   FixedStep{Min: 20, Max: 30, Step: 0.5, Precision: 1},
			lang:     "ko",
		},
		{
			name:     "explicit fixed",
			cfg:      config.DiagramData{Quantity: "anomaly", LevelPolicy: "fixed", LevelMin: 24, LevelMax: 28, LevelStep: 0.25},
			quantity: seawater.QuantityAnomaly,
			levels:   FixedStep{Min: 24, Max: 28, Step: 0.25, Precision: 2},
			lang:     "en",
		},
		{
			name:     "derived anomaly",
			cfg:      config.DiagramData{Quantity: "sigma-t", LevelPolicy: "derived", LevelStep: 0.2, LabelPrecision: &two},
			quantity: seawater.QuantityAnomaly,
			levels:   DataDerived{Step: 0.2, Precision: 2},
			lang:     "en",
		},
		{
			name:     "default policy with precision override",
			cfg:      config.DiagramData{LabelPrecision: &two},
			quantity: seawater.QuantitySpecificGravity,
			levels:   DataDerived{Step: 0.001, Precision: 2},
			lang:     "en",
		},
		{name: "bad quantity", cfg: config.DiagramData{Quantity: "salt"}, wantErr: true},
		{name: "bad policy", cfg: config.DiagramData{LevelPolicy: "log"}, wantErr: true},
		{name: "bad fixed range", cfg: config.DiagramData{LevelPolicy: "fixed", LevelMin: 5, LevelMax: 1, LevelStep: 1}, wantErr: true},
		{
			name:     "fixed specific gravity without range",
			cfg:      config.DiagramData{LevelPolicy: "fixed"},
			quantity: seawater.QuantitySpecificGravity,
			levels:   FixedStep{Min: 1.020, Max: 1.030, Step: 0.001, Precision: 3},
			lang:     "en",
		},
		{name: "bad palette entry", cfg: config.DiagramData{Palette: []string{"#000000", "red"}}, wantErr: true},
		{name: "negative derived step", cfg: config.DiagramData{LevelPolicy: "derived", LevelStep: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := OptionsFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("OptionsFromConfig error: %v", err)
			}
			if opts.Quantity != tt.quantity {
				t.Errorf("Quantity = %v, expected %v", opts.Quantity, tt.quantity)
			}
			if opts.Levels != tt.levels {
				t.Errorf("Levels = %#v, expected %#v", opts.Levels, tt.levels)
			}
			if opts.Labels.Tag != tt.lang {
				t.Errorf("language = %q, expected %q", opts.Labels.Tag, tt.lang)
			}
			if opts.Resolution != DefaultResolution || len(opts.Palette) != len(DefaultPalette) {
				t.Errorf("defaults not applied: %+v", opts)
			}
		})
	}
}
