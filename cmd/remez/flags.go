package main

import (
	"errors"
	"fmt"

	remez "github.com/tphakala/go-fir-remez"
	"github.com/tphakala/go-fir-remez/internal/config"
)

var errFormat = errors.New("unknown output format")

// FilterFlags describes one filter on the command line. Frequencies are in
// Hz when a sample rate is given and normalized otherwise.
type FilterFlags struct {
	Kind       string  `help:"Filter kind" enum:"lowpass,highpass,bandpass,channelizer,hilbert,differentiator" default:"lowpass"`
	SampleRate float64 `help:"Sample rate in Hz"`
	Order      int     `help:"Filter order; 0 estimates it for low, high and band pass filters"`
	Density    int     `help:"Grid density" default:"16"`
	Length     string  `help:"Force an odd or even low pass length"`

	StopEnd   float64 `help:"End of the lower stop band"`
	PassStart float64 `help:"Start of the pass band"`
	PassEnd   float64 `help:"End of the pass band"`
	StopStart float64 `help:"Start of the upper stop band"`

	PassRipple    float64 `help:"Pass band ripple in dB"`
	StopRipple    float64 `help:"Stop band ripple in dB"`
	PassAmplitude float64 `help:"Pass band gain"`

	Channels         int     `help:"Channelizer channel count"`
	TapsPerChannel   int     `help:"Channelizer taps per channel"`
	ChannelBandwidth float64 `help:"Channelizer channel bandwidth in Hz"`
	Alpha            float64 `help:"Channelizer transition factor"`

	Slope float64 `help:"Differentiator slope"`
}

// DesignFlags control how the exchange runs.
type DesignFlags struct {
	Policy        string `help:"Failure policy" enum:"hard,soft" default:"hard"`
	Evaluator     string `help:"Interpolation strategy" enum:"barycentric,lagrange" default:"barycentric"`
	Precision     uint   `help:"Mantissa bits for the lagrange evaluator" default:"256"`
	MaxIterations int    `help:"Exchange iteration limit; 0 keeps the default"`
	NoRippleCheck bool   `help:"Accept converged designs that miss their ripple targets"`
}

func (f FilterFlags) filter() config.Filter {
	return config.Filter{
		Kind:             f.Kind,
		SampleRate:       f.SampleRate,
		Order:            f.Order,
		GridDensity:      f.Density,
		Length:           f.Length,
		StopEnd:          f.StopEnd,
		PassStart:        f.PassStart,
		PassEnd:          f.PassEnd,
		StopStart:        f.StopStart,
		PassRippleDB:     f.PassRipple,
		StopRippleDB:     f.StopRipple,
		PassAmp:          f.PassAmplitude,
		Channels:         f.Channels,
		TapsPerChannel:   f.TapsPerChannel,
		ChannelBandwidth: f.ChannelBandwidth,
		Alpha:            f.Alpha,
		Slope:            f.Slope,
	}
}

// config wraps the flags in a one-filter configuration so they go through
// the same builders as a batch file.
func (f FilterFlags) config(d DesignFlags) *config.Config {
	cfg := config.Default()
	cfg.Defaults.Policy = d.Policy
	cfg.Defaults.Evaluator = d.Evaluator
	cfg.Defaults.Precision = d.Precision
	cfg.Defaults.MaxIterations = d.MaxIterations
	cfg.Defaults.RippleCheck = !d.NoRippleCheck
	cfg.Filters = map[string]config.Filter{f.Kind: f.filter()}
	return &cfg
}

func (f FilterFlags) specification(d DesignFlags) (*remez.Specification, []remez.Option, error) {
	cfg := f.config(d)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	spec, err := cfg.Build(f.Kind)
	if err != nil {
		return nil, nil, err
	}
	return spec, cfg.Defaults.DesignOptions(), nil
}

func checkFormat(format string) error {
	if format != formatYAML && format != formatTable {
		return fmt.Errorf("%w: %q", errFormat, format)
	}
	return nil
}
