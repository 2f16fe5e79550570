// ABOUTME: Settings loading with embedded defaults, then global, then project YAML
// ABOUTME: Converts the merged settings into an events.Config for the dispatcher

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/ttyevents/internal/log"
	"github.com/mauromedda/ttyevents/pkg/events"
	"github.com/mauromedda/ttyevents/pkg/tui/key"
)

//go:embed default.yaml
var defaultYAML []byte

// Settings holds the merged configuration. Values stay as strings until
// EventsConfig so that ${VAR} expansion can apply to every field.
type Settings struct {
	ExitKey  string `yaml:"exit_key,omitempty"`
	TickRate string `yaml:"tick_rate,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`
}

// Defaults returns the settings from the embedded default.yaml.
func Defaults() *Settings {
	s, err := decode(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded default.yaml: %v", err))
	}
	return s
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Load reads the global and project-local files on top of the defaults.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	return LoadFiles(GlobalConfigFile(), ProjectConfigFile(projectRoot))
}

// LoadFiles layers each file over the defaults in order; later files win.
// Missing files are skipped. ${VAR} references are expanded per file and
// each file is validated on its own so errors name the offending path.
func LoadFiles(paths ...string) (*Settings, error) {
	merged := Defaults()
	for _, path := range paths {
		s, err := loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("config: %s not found, skipping", path)
			continue
		}
		if err != nil {
			return nil, err
		}

		ResolveEnvVars(s)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		merged = merge(merged, s)
	}
	return merged, nil
}

func (s *Settings) validate() error {
	if _, err := s.EventsConfig(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// loadFile reads a Settings from a YAML file. The error wraps
// fs.ErrNotExist when the file is missing.
func loadFile(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// decode rejects unknown keys so a typo does not silently fall back to a
// default. An empty document yields zero Settings.
func decode(r io.Reader) (*Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &s, nil
}

// merge overlays non-empty values of top onto base.
func merge(base, top *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if top == nil {
		return base
	}

	result := *base
	if top.ExitKey != "" {
		result.ExitKey = top.ExitKey
	}
	if top.TickRate != "" {
		result.TickRate = top.TickRate
	}
	if top.LogLevel != "" {
		result.LogLevel = top.LogLevel
	}
	if top.LogFile != "" {
		result.LogFile = top.LogFile
	}
	return &result
}

// EventsConfig converts s into a dispatcher config. Empty fields keep the
// values of events.DefaultConfig.
func (s *Settings) EventsConfig() (events.Config[key.Key], error) {
	cfg := events.DefaultConfig()

	if s.ExitKey != "" {
		k, err := key.ParseName(s.ExitKey)
		if err != nil {
			return cfg, fmt.Errorf("exit_key: %w", err)
		}
		cfg.ExitKey = k
	}

	if s.TickRate != "" {
		d, err := time.ParseDuration(s.TickRate)
		if err != nil {
			return cfg, fmt.Errorf("tick_rate: %w", err)
		}
		if d < 0 {
			return cfg, fmt.Errorf("tick_rate: %s is negative", s.TickRate)
		}
		cfg.TickRate = d
	}

	return cfg, nil
}
