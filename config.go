package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".es-profile.yaml"

type options struct {
	millis             int
	excludeBelowMillis int
	depth              int
	verbose            int
	color              string
	logLevel           string
}

func defaultOptions() options {
	return options{
		millis:   1000,
		color:    colorAuto,
		logLevel: defaultLogLevel,
	}
}

// configFile is the on-disk form. Pointers tell unset keys from zero values.
type configFile struct {
	Millis             *int    `yaml:"millis"`
	ExcludeBelowMillis *int    `yaml:"exclude_below_millis"`
	Depth              *int    `yaml:"depth"`
	Verbose            *int    `yaml:"verbose"`
	Color              *string `yaml:"color"`
	LogLevel           *string `yaml:"log_level"`
}

// readConfigFile loads path. A missing file is not an error when optional
// is set, so the default config file may simply not exist.
func readConfigFile(path string, optional bool) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// merge copies the values set in cfg into o, except the ones whose flag
// was given explicitly on the command line.
func (o *options) merge(cfg *configFile, flagSet func(name string) bool) {
	if cfg == nil {
		return
	}
	setInt := func(flag string, dst *int, src *int) {
		if src != nil && !flagSet(flag) {
			*dst = *src
		}
	}
	setStr := func(flag string, dst *string, src *string) {
		if src != nil && !flagSet(flag) {
			*dst = *src
		}
	}
	setInt("millis", &o.millis, cfg.Millis)
	setInt("exclude-below-millis", &o.excludeBelowMillis, cfg.ExcludeBelowMillis)
	setInt("depth", &o.depth, cfg.Depth)
	setInt("verbose", &o.verbose, cfg.Verbose)
	setStr("color", &o.color, cfg.Color)
	setStr("log-level", &o.logLevel, cfg.LogLevel)
}

func (o options) validate() error {
	// Thresholds are converted to nanoseconds as int64.
	const maxMillis = math.MaxInt64 / nanosPerMilli
	if int64(o.millis) > maxMillis {
		return fmt.Errorf("invalid --millis %d: must not exceed %d", o.millis, int64(maxMillis))
	}
	if int64(o.excludeBelowMillis) > maxMillis {
		return fmt.Errorf("invalid --exclude-below-millis %d: must not exceed %d", o.excludeBelowMillis, int64(maxMillis))
	}
	if o.millis < 0 {
		return fmt.Errorf("invalid --millis %d: must not be negative", o.millis)
	}
	if o.excludeBelowMillis < 0 {
		return fmt.Errorf("invalid --exclude-below-millis %d: must not be negative", o.excludeBelowMillis)
	}
	if o.depth < 0 {
		return fmt.Errorf("invalid --depth %d: must not be negative", o.depth)
	}
	switch o.color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("unknown color mode %q (valid: auto, always, never)", o.color)
	}
	return nil
}

func (o options) renderOptions() renderOptions {
	verbosity := o.verbose
	if verbosity > verboseAll {
		verbosity = verboseAll
	}
	if verbosity < 0 {
		verbosity = 0
	}
	return renderOptions{
		millisThreshold: o.millis,
		maxDepth:        o.depth,
		verbosity:       verbosity,
	}
}
