// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the sigsim command configuration from YAML files and
// environment variables.
//
package config

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/db47h/sigsim"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file settings.
//
const (
	EnvTickPeriod  = "SIGSIM_TICK_PERIOD"
	EnvLogLevel    = "LOG_LEVEL"
	EnvMetricsAddr = "SIGSIM_METRICS_ADDR"
	EnvStreamAddr  = "SIGSIM_STREAM_ADDR"
)

var validate = validator.New()

// Config is the command configuration.
//
type Config struct {
	// TickPeriod is the simulation clock period.
	TickPeriod time.Duration `yaml:"tickPeriod" validate:"gte=1ms,lte=1m"`
	LogLevel   string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat  string        `yaml:"logFormat" validate:"oneof=text json"`
	// MetricsAddr is the listen address of the Prometheus endpoint. Empty
	// disables it.
	MetricsAddr string `yaml:"metricsAddr" validate:"omitempty,hostname_port"`
	// StreamAddr is the listen address of the WebSocket snapshot stream. Empty
	// disables it.
	StreamAddr string `yaml:"streamAddr" validate:"omitempty,hostname_port"`
	HistoryCap int    `yaml:"historyCap" validate:"gte=1,lte=1048576"`
	// Seed seeds the random source of generators. Zero picks a time based seed.
	Seed int64 `yaml:"seed"`
}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		TickPeriod: sigsim.DefaultPeriod,
		LogLevel:   "info",
		LogFormat:  "text",
		HistoryCap: sigsim.DefaultHistoryCap,
	}
}

// Load returns the default configuration overridden by the YAML file at path,
// if path is not empty, then by environment variables. The result is
// validated.
//
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}
		if err = yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := c.FromEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv applies environment overrides, looked up with lookup.
//
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTickPeriod); ok {
		d, err := parseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvTickPeriod)
		}
		c.TickPeriod = d
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookup(EnvStreamAddr); ok {
		c.StreamAddr = v
	}
	return nil
}

// parseDuration accepts Go durations ("250ms") and plain milliseconds.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return errors.Errorf("invalid config: %s: %s %s", e.Field(), e.Tag(), e.Param())
		}
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// SimOptions returns the simulation options matching the configuration.
//
func (c *Config) SimOptions() []sigsim.Option {
	opts := []sigsim.Option{sigsim.WithHistoryCap(c.HistoryCap)}
	if c.Seed != 0 {
		opts = append(opts, sigsim.WithRand(rand.New(rand.NewSource(c.Seed))))
	}
	return opts
}
