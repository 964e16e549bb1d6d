// Package config loads optional YAML settings for the towercore binary.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/logger"
)

// Config is the root of a settings file:
//
//	engine:
//	  seed: 7
//	  maze_mode: true
//	  ambient:
//	    enabled: false
//	log:
//	  level: info
//	  file: towercore.log
type Config struct {
	Engine engine.Options `yaml:"engine"`
	Log    logger.Config  `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Engine: engine.DefaultOptions()}
}

// Load reads path over the defaults. Keys that do not match a field are an
// error so typos do not pass silently.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	o := c.Engine
	var errs []error
	if o.ResourceUnits <= 0 {
		errs = append(errs, fmt.Errorf("resource_units must be positive, got %d", o.ResourceUnits))
	}
	if !o.StartingMaterials.Valid() {
		errs = append(errs, errors.New("starting_materials must not be negative"))
	}
	if o.RefundRatio < 0 || o.RefundRatio > 1 {
		errs = append(errs, fmt.Errorf("refund_ratio must be within [0,1], got %g", o.RefundRatio))
	}
	if a := o.Ambient; a.Enabled && (a.MinTicks > a.MaxTicks || a.MinBatch > a.MaxBatch) {
		errs = append(errs, errors.New("ambient min values must not exceed max values"))
	}
	if o.Economy.PassiveInterval < 0 {
		errs = append(errs, errors.New("economy.passive_interval must not be negative"))
	}
	return errors.Join(errs...)
}
