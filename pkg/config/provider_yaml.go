package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

type serverYAML struct {
	ListenAddr     string `yaml:"listen_addr,omitempty"`
	HTTPPort       int    `yaml:"http_port,omitempty"`
	TLSCertPath    string `yaml:"tls_cert_path,omitempty"`
	TLSKeyPath     string `yaml:"tls_key_path,omitempty"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes,omitempty"`
	MaxFiles       int    `yaml:"max_files,omitempty"`
}

type diagramYAML struct {
	Resolution        int      `yaml:"resolution,omitempty"`
	Quantity          string   `yaml:"quantity,omitempty"`
	LevelPolicy       string   `yaml:"level_policy,omitempty"`
	LevelMin          float64  `yaml:"level_min,omitempty"`
	LevelMax          float64  `yaml:"level_max,omitempty"`
	LevelStep         float64  `yaml:"level_step,omitempty"`
	LabelPrecision    *int     `yaml:"label_precision,omitempty"`
	Palette           []string `yaml:"palette,omitempty"`
	InvertTemperature bool     `yaml:"invert_temperature,omitempty"`
	Language          string   `yaml:"language,omitempty"`
}

type renderYAML struct {
	WidthIn  float64 `yaml:"width_in,omitempty"`
	HeightIn float64 `yaml:"height_in,omitempty"`
	FontPath string  `yaml:"font_path,omitempty"`
	FontSize float64 `yaml:"font_size,omitempty"`
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server  serverYAML  `yaml:"server,omitempty"`
		Diagram diagramYAML `yaml:"diagram,omitempty"`
		Render  renderYAML  `yaml:"render,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Server: ServerData{
			ListenAddr:     yamlConfig.Server.ListenAddr,
			HTTPPort:       yamlConfig.Server.HTTPPort,
			TLSCertPath:    yamlConfig.Server.TLSCertPath,
			TLSKeyPath:     yamlConfig.Server.TLSKeyPath,
			MaxUploadBytes: yamlConfig.Server.MaxUploadBytes,
			MaxFiles:       yamlConfig.Server.MaxFiles,
		},
		Diagram: DiagramData{
			Resolution:        yamlConfig.Diagram.Resolution,
			Quantity:          yamlConfig.Diagram.Quantity,
			LevelPolicy:       yamlConfig.Diagram.LevelPolicy,
			LevelMin:          yamlConfig.Diagram.LevelMin,
			LevelMax:          yamlConfig.Diagram.LevelMax,
			LevelStep:         yamlConfig.Diagram.LevelStep,
			LabelPrecision:    yamlConfig.Diagram.LabelPrecision,
			Palette:           yamlConfig.Diagram.Palette,
			InvertTemperature: yamlConfig.Diagram.InvertTemperature,
			Language:          yamlConfig.Diagram.Language,
		},
		Render: RenderData{
			WidthIn:  yamlConfig.Render.WidthIn,
			HeightIn: yamlConfig.Render.HeightIn,
			FontPath: yamlConfig.Render.FontPath,
			FontSize: yamlConfig.Render.FontSize,
		},
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
