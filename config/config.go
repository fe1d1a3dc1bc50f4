package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AppConfig holds the application-level configuration
type AppConfig struct {
	DPI                  int           `mapstructure:"dpi"`
	ContextLines         int           `mapstructure:"context_lines"`
	PreviewLines         int           `mapstructure:"preview_lines"`
	Detailed             bool          `mapstructure:"detailed"`
	VisualThreshold      float64       `mapstructure:"visual_threshold"`
	RendererBin          string        `mapstructure:"renderer_bin"`
	ProbeTimeout         time.Duration `mapstructure:"probe_timeout"`
	DisabledCapabilities []string      `mapstructure:"disabled_capabilities"`
	DefaultMethods       []string      `mapstructure:"default_methods"`
	HistoryPath          string        `mapstructure:"history_path"`
	LogFile              string        `mapstructure:"log_file"`
	Debug                bool          `mapstructure:"debug"`
}

var Config *AppConfig

func setDefaults(v *viper.Viper) {
	v.SetDefault("dpi", 150)
	v.SetDefault("context_lines", 2)
	v.SetDefault("preview_lines", 20)
	v.SetDefault("detailed", true)
	v.SetDefault("visual_threshold", 0.999)
	v.SetDefault("renderer_bin", "pdftoppm")
	v.SetDefault("probe_timeout", 5*time.Second)
	v.SetDefault("disabled_capabilities", []string{})
	v.SetDefault("default_methods", []string{})
	v.SetDefault("history_path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *AppConfig {
	v := viper.New()
	setDefaults(v)
	var cfg AppConfig
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadConfig reads pdfcompare.yaml from path (if present), applies PDFCOMPARE_* environment
// overrides and stores the result in Config.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("pdfcompare")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("PDFCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logrus.Debugf("no config file found, using defaults: %v", err)
	}

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	Config = &appConfig
	return Config, nil
}

// Validate rejects values no comparator can work with.
func (c *AppConfig) Validate() error {
	switch {
	case c.DPI <= 0:
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	case c.ContextLines < 0:
		return fmt.Errorf("context_lines must not be negative, got %d", c.ContextLines)
	case c.PreviewLines < 0:
		return fmt.Errorf("preview_lines must not be negative, got %d", c.PreviewLines)
	case c.VisualThreshold <= 0 || c.VisualThreshold > 1:
		return fmt.Errorf("visual_threshold must be in (0,1], got %v", c.VisualThreshold)
	case c.ProbeTimeout <= 0:
		return fmt.Errorf("probe_timeout must be positive, got %v", c.ProbeTimeout)
	}
	return nil
}
