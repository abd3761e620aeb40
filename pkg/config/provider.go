package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server  ServerData  `json:"server"`
	Diagram DiagramData `json:"diagram"`
	Render  RenderData  `json:"render"`
}

// ServerData holds the HTTP listener configuration and upload limits
type ServerData struct {
	ListenAddr     string `json:"listen_addr,omitempty"`
	HTTPPort       int    `json:"http_port,omitempty"`
	TLSCertPath    string `json:"tls_cert_path,omitempty"`
	TLSKeyPath     string `json:"tls_key_path,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`
	MaxFiles       int    `json:"max_files,omitempty"`
}

// DiagramData controls how density fields and isopycnals are computed
type DiagramData struct {
	Resolution        int      `json:"resolution,omitempty"`
	Quantity          string   `json:"quantity,omitempty"`     // density, anomaly or specific_gravity
	LevelPolicy       string   `json:"level_policy,omitempty"` // fixed or derived
	LevelMin          float64  `json:"level_min,omitempty"`
	LevelMax          float64  `json:"level_max,omitempty"`
	LevelStep         float64  `json:"level_step,omitempty"`
	LabelPrecision    *int     `json:"label_precision,omitempty"`
	Palette           []string `json:"palette,omitempty"`
	InvertTemperature bool     `json:"invert_temperature,omitempty"`
	Language          string   `json:"language,omitempty"`
}

// RenderData controls image output
type RenderData struct {
	WidthIn  float64 `json:"width_in,omitempty"`
	HeightIn float64 `json:"height_in,omitempty"`
	FontPath string  `json:"font_path,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
}

// Level policy names accepted in DiagramData.LevelPolicy
const (
	LevelPolicyFixed   = "fixed"
	LevelPolicyDerived = "derived"
)

// Defaults
const (
	DefaultListenAddr     = "0.0.0.0"
	DefaultHTTPPort       = 8080
	DefaultMaxUploadBytes = 10 << 20
	DefaultMaxFiles       = 20
	DefaultResolution     = 100
	DefaultQuantity       = "specific_gravity"
	DefaultLanguage       = "en"
	DefaultWidthIn        = 8.0
	DefaultHeightIn       = 6.0
	DefaultFontSize       = 10.0
)

// ApplyDefaults fills in every unset field
func (c *ConfigData) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Server.MaxFiles == 0 {
		c.Server.MaxFiles = DefaultMaxFiles
	}

	if c.Diagram.Resolution == 0 {
		c.Diagram.Resolution = DefaultResolution
	}
	if c.Diagram.Quantity == "" {
		c.Diagram.Quantity = DefaultQuantity
	}
	if c.Diagram.Language == "" {
		c.Diagram.Language = DefaultLanguage
	}

	if c.Render.WidthIn == 0 {
		c.Render.WidthIn = DefaultWidthIn
	}
	if c.Render.HeightIn == 0 {
		c.Render.HeightIn = DefaultHeightIn
	}
	if c.Render.FontSize == 0 {
		c.Render.FontSize = DefaultFontSize
	}
}

// Validate checks the configuration for values that cannot work
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if (c.Server.TLSCertPath == "") != (c.Server.TLSKeyPath == "") {
		errs = append(errs, errors.New("server.tls_cert_path and server.tls_key_path must be set together"))
	}
	if c.Server.MaxUploadBytes < 0 || c.Server.MaxFiles < 0 {
		errs = append(errs, errors.New("server upload limits must not be negative"))
	}

	if c.Diagram.Resolution < 2 {
		errs = append(errs, fmt.Errorf("diagram.resolution must be at least 2, got %d", c.Diagram.Resolution))
	}
	switch strings.ToLower(c.Diagram.LevelPolicy) {
	case "", LevelPolicyDerived:
		if c.Diagram.LevelStep < 0 {
			errs = append(errs, errors.New("diagram.level_step must be positive"))
		}
	case LevelPolicyFixed:
		if c.Diagram.LevelStep != 0 || c.Diagram.LevelMin != 0 || c.Diagram.LevelMax != 0 {
			if c.Diagram.LevelStep <= 0 {
				errs = append(errs, errors.New("diagram.level_step must be positive"))
			}
			if c.Diagram.LevelMax <= c.Diagram.LevelMin {
				errs = append(errs, errors.New("diagram.level_max must be greater than diagram.level_min"))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown diagram.level_policy %q: use 'fixed' or 'derived'", c.Diagram.LevelPolicy))
	}
	for i, hex := range c.Diagram.Palette {
		if _, err := ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("diagram.palette[%d]: %w", i, err))
		}
	}
	if c.Diagram.LabelPrecision != nil && (*c.Diagram.LabelPrecision < 0 || *c.Diagram.LabelPrecision > 6) {
		errs = append(errs, errors.New("diagram.label_precision must be between 0 and 6"))
	}

	if c.Render.WidthIn < 0 || c.Render.HeightIn < 0 || c.Render.FontSize < 0 {
		errs = append(errs, errors.New("render sizes must not be negative"))
	}

	return errors.Join(errs...)
}
