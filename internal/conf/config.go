// Package conf loads and holds the application settings.
package conf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool     // true to enable this log
	Path     string   // Path to the log file
	Rotation Rotation // Log rotation type
	MaxSize  int64    // Max log size in bytes for size rotation
}

// Rotation defines the log rotation type
type Rotation string

// Rotation types
const (
	RotationDaily  Rotation = "daily"
	RotationWeekly Rotation = "weekly"
	RotationSize   Rotation = "size"
)

// AudioSettings holds the session-level audio parameters. Block size and
// sample rate are fixed for the lifetime of a session.
type AudioSettings struct {
	Device     string // Capture/playback device name, empty for system default
	SampleRate int    // Session sample rate in Hz
	BlockSize  int    // Samples per processing block
	Export     ExportSettings
}

// ExportSettings holds recording output options
type ExportSettings struct {
	Enabled bool   // true to start recording at launch
	Path    string // Directory for recorded WAV files
}

// ChainSettings holds the initial enhancement chain parameters. These seed
// the pipeline's parameter store; a control surface can replace them at
// runtime without touching this struct.
type ChainSettings struct {
	InputGainDb           float64 `mapstructure:"inputgaindb"`
	NoiseGateThreshold    float64 `mapstructure:"noisegatethreshold"`
	SpeechFocusEnabled    bool    `mapstructure:"speechfocusenabled"`
	BandPassLowHz         float64 `mapstructure:"bandpasslowhz"`
	BandPassHighHz        float64 `mapstructure:"bandpasshighhz"`
	CompressorEnabled     bool    `mapstructure:"compressorenabled"`
	CompressorThresholdDb float64 `mapstructure:"compressorthresholddb"`
	CompressorRatio       float64 `mapstructure:"compressorratio"`
	CompressorAttackMs    float64 `mapstructure:"compressorattackms"`
	CompressorReleaseMs   float64 `mapstructure:"compressorreleasems"`
	MakeupGainDb          float64 `mapstructure:"makeupgaindb"`
	OutputGainDb          float64 `mapstructure:"outputgaindb"`
	LimiterEnabled        bool    `mapstructure:"limiterenabled"`
	LimiterThresholdDb    float64 `mapstructure:"limiterthresholddb"`
}

// Settings contains all configuration options for the application
type Settings struct {
	Debug bool // true to enable debug logging

	Main struct {
		Name string    // Name of this instance
		Log  LogConfig // Main log configuration
	}

	Audio     AudioSettings
	Chain     ChainSettings
	Telemetry TelemetrySettings
}

// TelemetrySettings holds the Prometheus endpoint options
type TelemetrySettings struct {
	Enabled bool   // true to enable Prometheus compatible telemetry endpoint
	Listen  string // IP address and port to listen on
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file present, run with defaults
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// Setting returns the current settings instance, or nil before Load.
func Setting() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
