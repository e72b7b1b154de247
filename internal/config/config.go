// Package config loads batch design files. A file is HCL with a defaults
// block and a filters block of named filter definitions; REMEZ_ environment
// variables override any key, with "__" separating nesting levels
// (REMEZ_DEFAULTS__WORKERS=4).
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read by Load.
const EnvPrefix = "REMEZ_"

const (
	keyDelim   = "."
	envNesting = "__"
)

// Filter kinds.
const (
	KindLowPass        = "lowpass"
	KindHighPass       = "highpass"
	KindBandPass       = "bandpass"
	KindChannelizer    = "channelizer"
	KindHilbert        = "hilbert"
	KindDifferentiator = "differentiator"
)

var kinds = []string{KindLowPass, KindHighPass, KindBandPass, KindChannelizer, KindHilbert, KindDifferentiator}

// Errors returned by Validate.
var (
	ErrNoFilters   = errors.New("no filters defined")
	ErrUnknownKind = errors.New("unknown filter kind")
	ErrBadDefault  = errors.New("invalid default")
)

// Defaults apply to every filter in the file.
type Defaults struct {
	SampleRate    float64 `koanf:"sample_rate"`
	GridDensity   int     `koanf:"grid_density"`
	Policy        string  `koanf:"policy"`
	Evaluator     string  `koanf:"evaluator"`
	Precision     uint    `koanf:"precision"`
	MaxIterations int     `koanf:"max_iterations"`
	RippleCheck   bool    `koanf:"ripple_check"`
	Workers       int     `koanf:"workers"`
}

// Filter is one named filter definition. Frequencies are in Hz when a
// sample rate is set; which edges apply depends on Kind.
type Filter struct {
	Kind        string  `koanf:"kind"`
	SampleRate  float64 `koanf:"sample_rate"`
	Order       int     `koanf:"order"`
	GridDensity int     `koanf:"grid_density"`

	// Length forces "odd" or "even" low pass lengths.
	Length string `koanf:"length"`

	StopEnd   float64 `koanf:"stop_end"`
	PassStart float64 `koanf:"pass_start"`
	PassEnd   float64 `koanf:"pass_end"`
	StopStart float64 `koanf:"stop_start"`

	PassRippleDB float64 `koanf:"pass_ripple_db"`
	StopRippleDB float64 `koanf:"stop_ripple_db"`
	PassAmp      float64 `koanf:"pass_amplitude"`

	Channels         int     `koanf:"channels"`
	TapsPerChannel   int     `koanf:"taps_per_channel"`
	ChannelBandwidth float64 `koanf:"channel_bandwidth"`
	Alpha            float64 `koanf:"alpha"`

	Slope float64 `koanf:"slope"`
}

// Config is a loaded design file.
type Config struct {
	Defaults Defaults          `koanf:"defaults"`
	Filters  map[string]Filter `koanf:"filters"`
}

// Default returns the configuration used before any file is read.
func Default() Config {
	return Config{
		Defaults: Defaults{
			GridDensity: 16,
			Policy:      "hard",
			Evaluator:   "barycentric",
			RippleCheck: true,
		},
	}
}

// Options select the sources Load reads.
type Options struct {
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

// Load reads path (skipped when empty) and then the environment on top of
// Default().
func Load(path string, opts Options) (*Config, error) {
	k := koanf.New(keyDelim)

	if path != "" {
		if err := k.Load(file.Provider(path), hcl.Parser(true)); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(keyDelim, env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return &cfg, nil
}

func envKey(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(key, envNesting, keyDelim), v
}

// Names returns the filter names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Filters))
	for name := range c.Filters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks the defaults and that every filter has a known kind.
func (c *Config) Validate() error {
	d := c.Defaults
	switch {
	case d.GridDensity < 1:
		return fmt.Errorf("%w: grid_density %d", ErrBadDefault, d.GridDensity)
	case d.Policy != "hard" && d.Policy != "soft":
		return fmt.Errorf("%w: policy %q", ErrBadDefault, d.Policy)
	case d.Evaluator != "barycentric" && d.Evaluator != "lagrange":
		return fmt.Errorf("%w: evaluator %q", ErrBadDefault, d.Evaluator)
	case d.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrBadDefault, d.Workers)
	}

	if len(c.Filters) == 0 {
		return ErrNoFilters
	}
	for _, name := range c.Names() {
		if kind := c.Filters[name].Kind; !slices.Contains(kinds, kind) {
			return fmt.Errorf("%w: filter %q has kind %q", ErrUnknownKind, name, kind)
		}
	}
	return nil
}
