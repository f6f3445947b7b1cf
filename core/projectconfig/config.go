// Package projectconfig loads optional project-level defaults for the
// verdict CLI from .verdict/config.yaml.
package projectconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

const DefaultPath = ".verdict/config.yaml"

// Built-in defaults.
const (
	DefaultBaseLowThreshold  = 20.0
	DefaultBaseHighThreshold = 45.0
	DefaultTopN              = 5
	DefaultModelRef          = "risk-decision"
)

type Config struct {
	Engine    EngineDefaults    `yaml:"engine"`
	Decide    DecideDefaults    `yaml:"decide"`
	Telemetry TelemetryDefaults `yaml:"telemetry"`
}

type EngineDefaults struct {
	BaseLowThreshold  float64 `yaml:"base_low_threshold"`
	BaseHighThreshold float64 `yaml:"base_high_threshold"`
	TopN              int     `yaml:"top_n"`
	ModelRef          string  `yaml:"model_ref"`
}

type DecideDefaults struct {
	Out     string `yaml:"out"`
	NoAudit bool   `yaml:"no_audit"`
}

type TelemetryDefaults struct {
	DecisionLog string `yaml:"decision_log"`
}

// Default returns the configuration used when no project file exists.
func Default() Config {
	var configuration Config
	configuration.normalize()
	return configuration
}

// Load reads the project config. A missing file is allowed when allowMissing
// is set; an empty file yields the defaults. Invalid thresholds fail fast so
// a broken project file cannot silently change governance behavior.
func Load(path string, allowMissing bool) (Config, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return Config{}, fmt.Errorf("project config path is required")
	}

	// #nosec G304 -- project config path is explicit local user input.
	content, err := os.ReadFile(trimmedPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read project config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return Default(), nil
	}

	var configuration Config
	if err := yaml.Unmarshal(content, &configuration); err != nil {
		return Config{}, fmt.Errorf("parse project config: %w", err)
	}
	configuration.normalize()
	if err := configuration.validate(); err != nil {
		return Config{}, err
	}
	return configuration, nil
}

func (configuration *Config) normalize() {
	if configuration.Engine.BaseLowThreshold == 0 {
		configuration.Engine.BaseLowThreshold = DefaultBaseLowThreshold
	}
	if configuration.Engine.BaseHighThreshold == 0 {
		configuration.Engine.BaseHighThreshold = DefaultBaseHighThreshold
	}
	if configuration.Engine.TopN <= 0 {
		configuration.Engine.TopN = DefaultTopN
	}
	configuration.Engine.ModelRef = strings.TrimSpace(configuration.Engine.ModelRef)
	if configuration.Engine.ModelRef == "" {
		configuration.Engine.ModelRef = DefaultModelRef
	}
	configuration.Decide.Out = strings.TrimSpace(configuration.Decide.Out)
	configuration.Telemetry.DecisionLog = strings.TrimSpace(configuration.Telemetry.DecisionLog)
}

func (configuration Config) validate() error {
	low := configuration.Engine.BaseLowThreshold
	high := configuration.Engine.BaseHighThreshold
	if low <= 0 || high <= 0 || low >= high {
		return fmt.Errorf("project config thresholds invalid: require 0 < base_low_threshold (%v) < base_high_threshold (%v)", low, high)
	}
	return nil
}
