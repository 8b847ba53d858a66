package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`

	// HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Storage settings
	Storage StorageConfig `mapstructure:"storage"`

	// Model settings
	Model ModelConfig `mapstructure:"model"`

	// Prediction fusion settings
	Fusion FusionConfig `mapstructure:"fusion"`

	// Rule scorer thresholds and weights
	Rules diagnosis.RuleConfig `mapstructure:"rules"`

	// Audio handling settings
	Audio AudioConfig `mapstructure:"audio"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig contains persistence settings
type StorageConfig struct {
	SQLitePath  string `mapstructure:"sqlite_path"`
	HistoryPath string `mapstructure:"history_path"`
}

// ModelConfig contains trained-model bundle locations
type ModelConfig struct {
	EnhancedPath string `mapstructure:"enhanced_path"`
	BasicPath    string `mapstructure:"basic_path"`
	AllowMock    bool   `mapstructure:"allow_mock"`
}

// FusionConfig contains prediction fusion settings
type FusionConfig struct {
	Mode      string  `mapstructure:"mode"`
	Threshold float64 `mapstructure:"threshold"`
}

// AudioConfig contains audio handling settings
type AudioConfig struct {
	RecordingDir   string `mapstructure:"recording_dir"`
	SaveRecordings bool   `mapstructure:"save_recordings"`
}

// Load reads configuration from an optional YAML file plus DIAG_*
// environment variables, applying defaults for anything unset.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("DIAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("diagnosis")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("unable to read config: %w", err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for internally inconsistent values.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	switch diagnosis.FusionMode(config.Fusion.Mode) {
	case diagnosis.FusionLegacy, diagnosis.FusionEnhanced, diagnosis.FusionHybrid:
	default:
		return fmt.Errorf("unknown fusion mode %q", config.Fusion.Mode)
	}

	if config.Fusion.Threshold <= 0 || config.Fusion.Threshold > 1 {
		return fmt.Errorf("fusion threshold must be in (0,1], got %v", config.Fusion.Threshold)
	}

	if config.Rules.MaxScore <= 0 {
		return fmt.Errorf("rules max score must be positive")
	}
	if config.Rules.CriticalScore <= config.Rules.UrgentScore ||
		config.Rules.UrgentScore <= config.Rules.AttentionScore {
		return fmt.Errorf("rule score breakpoints must be strictly decreasing (critical > urgent > attention)")
	}

	return nil
}
