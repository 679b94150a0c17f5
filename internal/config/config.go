package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fractal/internal/field"
)

const (
	DefaultWidth   = 512
	DefaultHeight  = 512
	DefaultPreset  = "overview"
	DefaultOutput  = "mandel.png"
	DefaultDataDir = ".fractal"
)

type Config struct {
	Width    int            `yaml:"width" toml:"width"`
	Height   int            `yaml:"height" toml:"height"`
	Viewport field.Viewport `yaml:"viewport" toml:"viewport"`
	Workers  int            `yaml:"workers" toml:"workers"`
	Output   string         `yaml:"output" toml:"output"`
	DataDir  string         `yaml:"data_dir" toml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Viewport: Presets[DefaultPreset].Viewport,
		Output:   DefaultOutput,
		DataDir:  DefaultDataDir,
	}
}

// Load reads a YAML or TOML (by extension) file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the render surface and viewport, reporting every problem.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d: %w", c.Width, c.Height, field.ErrInvalidDimensions))
	}
	if err := c.Viewport.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Workers))
	}
	return errors.Join(errs...)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
