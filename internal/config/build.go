package config

import (
	"fmt"

	remez "github.com/tphakala/go-fir-remez"
)

// Named pairs a filter name with its specification.
type Named struct {
	Name string
	Spec *remez.Specification
}

// DesignOptions converts the defaults into design options.
func (d Defaults) DesignOptions() []remez.Option {
	opts := []remez.Option{
		remez.WithRippleCheck(d.RippleCheck),
		remez.WithMaxIterations(d.MaxIterations),
		remez.WithWorkers(d.Workers),
	}
	if d.Policy == "soft" {
		opts = append(opts, remez.WithPolicy(remez.Soft))
	}
	if d.Evaluator == "lagrange" {
		opts = append(opts, remez.WithEvaluator(remez.Lagrange(d.Precision)))
	}
	return opts
}

// Specifications builds every filter in name order.
func (c *Config) Specifications() ([]Named, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]Named, 0, len(c.Filters))
	for _, name := range c.Names() {
		spec, err := c.Build(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: name, Spec: spec})
	}
	return out, nil
}

// Build returns the specification of one named filter.
func (c *Config) Build(name string) (*remez.Specification, error) {
	f, ok := c.Filters[name]
	if !ok {
		return nil, fmt.Errorf("filter %q not defined", name)
	}

	if f.SampleRate == 0 {
		f.SampleRate = c.Defaults.SampleRate
	}
	if f.GridDensity == 0 {
		f.GridDensity = c.Defaults.GridDensity
	}

	spec, err := f.build()
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", name, err)
	}
	return spec, nil
}

func (f Filter) build() (*remez.Specification, error) {
	switch f.Kind {
	case KindLowPass:
		return f.lowPass()
	case KindHighPass:
		return f.highPass()
	case KindBandPass:
		return f.bandPass()
	case KindChannelizer:
		b := remez.Channelizer().
			SampleRate(f.SampleRate).
			Channels(f.Channels).
			TapsPerChannel(f.TapsPerChannel).
			ChannelBandwidth(f.ChannelBandwidth).
			GridDensity(f.GridDensity)
		if f.Alpha > 0 {
			b.Alpha(f.Alpha)
		}
		if f.PassRippleDB > 0 {
			b.PassRipple(f.PassRippleDB)
		}
		if f.StopRippleDB > 0 {
			b.StopRipple(f.StopRippleDB)
		}
		return b.Build()
	case KindHilbert:
		b := remez.Hilbert().
			SampleRate(f.SampleRate).
			Order(f.Order).
			GridDensity(f.GridDensity).
			PassBand(f.PassStart, f.PassEnd)
		if f.PassRippleDB > 0 {
			b.Ripple(f.PassRippleDB)
		}
		return b.Build()
	case KindDifferentiator:
		b := remez.Differentiator().
			SampleRate(f.SampleRate).
			Order(f.Order).
			GridDensity(f.GridDensity).
			PassBandCutoff(f.PassEnd)
		if f.Slope != 0 {
			b.Slope(f.Slope)
		}
		if f.PassRippleDB > 0 {
			b.Ripple(f.PassRippleDB)
		}
		if f.StopStart > 0 {
			b.StopBand(f.StopStart, f.StopRippleDB)
		}
		return b.Build()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
}

func (f Filter) passAmplitude() float64 {
	if f.PassAmp == 0 {
		return 1
	}
	return f.PassAmp
}

func (f Filter) lowPass() (*remez.Specification, error) {
	b := remez.LowPass().
		SampleRate(f.SampleRate).
		Order(f.Order).
		GridDensity(f.GridDensity).
		PassBandCutoff(f.PassEnd).
		StopBandStart(f.StopStart).
		PassBandRipple(f.PassRippleDB).
		StopBandRipple(f.StopRippleDB).
		PassBandAmplitude(f.passAmplitude())

	switch f.Length {
	case "":
	case "odd":
		b.OddLength(true)
	case "even":
		b.OddLength(false)
	default:
		return nil, fmt.Errorf("length %q must be odd or even", f.Length)
	}
	return b.Build()
}

func (f Filter) highPass() (*remez.Specification, error) {
	return remez.HighPass().
		SampleRate(f.SampleRate).
		Order(f.Order).
		GridDensity(f.GridDensity).
		StopBandCutoff(f.StopEnd).
		PassBandStart(f.PassStart).
		PassBandRipple(f.PassRippleDB).
		StopBandRipple(f.StopRippleDB).
		PassBandAmplitude(f.passAmplitude()).
		Build()
}

func (f Filter) bandPass() (*remez.Specification, error) {
	b := remez.BandPass().
		SampleRate(f.SampleRate).
		Order(f.Order).
		GridDensity(f.GridDensity).
		StopFrequency1(f.StopEnd).
		PassFrequencyBegin(f.PassStart).
		PassFrequencyEnd(f.PassEnd).
		StopFrequency2(f.StopStart).
		PassAmplitude(f.passAmplitude())
	if f.PassRippleDB > 0 {
		b.PassRipple(f.PassRippleDB)
	}
	if f.StopRippleDB > 0 {
		b.StopRipple(f.StopRippleDB)
	}
	return b.Build()
}
