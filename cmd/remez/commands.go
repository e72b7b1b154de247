package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/tphakala/simd/cpu"
	"gopkg.in/yaml.v3"

	remez "github.com/tphakala/go-fir-remez"
	"github.com/tphakala/go-fir-remez/internal/chain"
	"github.com/tphakala/go-fir-remez/internal/config"
	"github.com/tphakala/go-fir-remez/internal/export"
	"github.com/tphakala/go-fir-remez/internal/filter"
	"github.com/tphakala/go-fir-remez/internal/grid"
)

var (
	errNotLowPass = errors.New("kaiser comparison needs a two band low pass")
	errReadBack   = errors.New("exported WAV does not match")
)

type designCmd struct {
	FilterFlags `embed:""`
	DesignFlags `embed:""`

	Format string `help:"Report format" enum:"yaml,table" default:"yaml"`
	Taps   bool   `help:"Include taps in the report" default:"true" negatable:""`
}

func (c *designCmd) Run(rc *runContext) error {
	spec, opts, err := c.specification(c.DesignFlags)
	if err != nil {
		return err
	}
	rc.logger.Debug("designing", "filter", spec)

	res, err := remez.Design(spec, append(opts, remez.WithLogger(rc.logger))...)
	if err != nil {
		return err
	}

	rep, err := export.NewReport(c.Kind, res, defaultResponsePoints, c.Taps)
	if err != nil {
		return err
	}
	return writeReports(rc.out, c.Format, []export.Report{rep})
}

type batchCmd struct {
	Config string `arg:"" type:"existingfile" help:"HCL design file"`

	Format string `help:"Report format" enum:"yaml,table" default:"yaml"`
	Taps   bool   `help:"Include taps in the report"`
	Output string `short:"o" help:"Write the report to a file instead of stdout"`
}

func (c *batchCmd) Run(rc *runContext) error {
	cfg, err := config.Load(c.Config, config.Options{})
	if err != nil {
		return err
	}
	named, err := cfg.Specifications()
	if err != nil {
		return err
	}

	specs := make([]*remez.Specification, len(named))
	for i, n := range named {
		specs[i] = n.Spec
	}
	rc.logger.Info("designing filters", "count", len(specs), "workers", cfg.Defaults.Workers, "policy", cfg.Defaults.Policy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := append(cfg.Defaults.DesignOptions(), remez.WithLogger(rc.logger))
	results, err := remez.DesignBatch(ctx, specs, opts...)
	if err != nil {
		return err
	}

	reports := make([]export.Report, len(results))
	for i, res := range results {
		if reports[i], err = export.NewReport(named[i].Name, res, defaultResponsePoints, c.Taps); err != nil {
			return err
		}
		if !res.Valid() {
			rc.logger.Warn("design failed", "filter", named[i].Name, "err", res.Err())
		}
	}

	out := rc.out
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeReports(out, c.Format, reports)
}

type analyzeCmd struct {
	FilterFlags `embed:""`
	DesignFlags `embed:""`

	Points     int `help:"Response samples between DC and Nyquist" default:"4096"`
	Tones      int `help:"Samples per tone gain measurement" default:"8192"`
	Decimation int `help:"Decimation of the complex channel filter check" default:"1"`
	Block      int `help:"Block size for the streaming tone check" default:"1024"`
}

// toneCheck sets up the time-domain measurements of analyze.
type toneCheck struct {
	Samples    int
	Decimation int
	Block      int
}

// bandAnalysis compares the equiripple design with a Kaiser windowed-sinc
// of the same length over one band.
type bandAnalysis struct {
	Start    float64 `yaml:"start"`
	End      float64 `yaml:"end"`
	Target   float64 `yaml:"target"`
	ToneGain float64 `yaml:"tone_gain"`

	// StreamGain runs the same tone block by block; ChannelGain runs a
	// complex tone through the single-precision decimating filter.
	StreamGain  float64 `yaml:"stream_gain"`
	ChannelGain float64 `yaml:"channel_gain"`

	RemezDeviation      float64 `yaml:"remez_deviation"`
	KaiserDeviation     float64 `yaml:"kaiser_deviation"`
	RemezAttenuationDB  float64 `yaml:"remez_attenuation_db"`
	KaiserAttenuationDB float64 `yaml:"kaiser_attenuation_db"`
}

type analysis struct {
	Taps       int     `yaml:"taps"`
	Iterations int     `yaml:"iterations"`
	Delta      float64 `yaml:"delta"`
	Decimation int     `yaml:"decimation"`

	// KaiserTarget is the attenuation the baseline's β is chosen for.
	KaiserTarget float64        `yaml:"kaiser_target_db"`
	Bands        []bandAnalysis `yaml:"bands"`
}

func (c *analyzeCmd) Run(rc *runContext) error {
	if c.Kind != config.KindLowPass {
		return fmt.Errorf("%w: kind %s", errNotLowPass, c.Kind)
	}

	spec, opts, err := c.specification(c.DesignFlags)
	if err != nil {
		return err
	}
	res, err := remez.Design(spec, append(opts, remez.WithLogger(rc.logger))...)
	if err != nil {
		return err
	}

	a, err := analyze(res, c.Points, toneCheck{Samples: c.Tones, Decimation: c.Decimation, Block: c.Block})
	if err != nil {
		return err
	}
	return yaml.NewEncoder(rc.out).Encode(a)
}

func analyze(res *remez.Result, points int, tones toneCheck) (*analysis, error) {
	taps, err := res.ImpulseResponse64()
	if err != nil {
		return nil, err
	}
	taps32, err := res.ImpulseResponse()
	if err != nil {
		return nil, err
	}

	bands := res.Specification().Bands()
	if len(bands) != 2 {
		return nil, errNotLowPass
	}
	gridBands := make([]grid.Band, len(bands))
	for i, b := range bands {
		gridBands[i] = grid.Band{Start: b.Start, End: b.End, Amplitude: b.Amplitude}
	}

	optimal := filter.Measure(taps, gridBands, points)
	attenuation := optimal[1].AttenuationDB

	kaiser, err := filter.DesignWindowed(filter.WindowParams{
		Taps:        len(taps),
		Cutoff:      (bands[0].End + bands[1].Start) / 2,
		Attenuation: attenuation,
		Gain:        bands[0].Amplitude,
	})
	if err != nil {
		return nil, fmt.Errorf("kaiser baseline: %w", err)
	}
	baseline := filter.Measure(kaiser, gridBands, points)

	a := &analysis{
		Taps:         len(taps),
		Iterations:   res.Iterations(),
		Delta:        res.Delta(),
		Decimation:   tones.Decimation,
		KaiserTarget: attenuation,
		Bands:        make([]bandAnalysis, len(bands)),
	}
	centers := make([]float64, len(bands))
	for i, b := range bands {
		centers[i] = (b.Start + b.End) / 2
	}
	streamed, err := chain.StreamGains(taps, centers, tones.Samples, tones.Block)
	if err != nil {
		return nil, err
	}

	for i, b := range bands {
		f := centers[i]
		gain, err := chain.ToneGain(taps, f, tones.Samples)
		if err != nil {
			return nil, err
		}
		channel, err := chain.ChannelGain(taps32, tones.Decimation, f, tones.Samples)
		if err != nil {
			return nil, fmt.Errorf("channel filter: %w", err)
		}
		a.Bands[i] = bandAnalysis{
			Start:               b.Start,
			End:                 b.End,
			Target:              b.Amplitude,
			ToneGain:            gain,
			StreamGain:          streamed[i],
			ChannelGain:         channel,
			RemezDeviation:      optimal[i].Deviation,
			KaiserDeviation:     baseline[i].Deviation,
			RemezAttenuationDB:  optimal[i].AttenuationDB,
			KaiserAttenuationDB: baseline[i].AttenuationDB,
		}
	}
	return a, nil
}

type exportCmd struct {
	Config string `arg:"" type:"existingfile" help:"HCL design file"`
	Name   string `arg:"" help:"Filter to export"`
	Output string `arg:"" help:"WAV file to write"`

	BitDepth   int `help:"PCM bit depth (16, 24 or 32)" default:"24"`
	SampleRate int `help:"WAV sample rate; defaults to the filter's"`
	Channels   int `help:"Split the taps into this many polyphase branches, one WAV per branch"`
}

func (c *exportCmd) Run(rc *runContext) error {
	cfg, err := config.Load(c.Config, config.Options{})
	if err != nil {
		return err
	}
	spec, err := cfg.Build(c.Name)
	if err != nil {
		return err
	}

	opts := append(cfg.Defaults.DesignOptions(), remez.WithPolicy(remez.Hard), remez.WithLogger(rc.logger))
	res, err := remez.Design(spec, opts...)
	if err != nil {
		return err
	}
	taps, err := res.ImpulseResponse64()
	if err != nil {
		return err
	}

	rate := c.SampleRate
	if rate == 0 {
		rate = exportRate(cfg, c.Name)
	}
	wavOpts := export.WAVOptions{SampleRate: rate, BitDepth: c.BitDepth}

	if c.Channels > 0 {
		return c.exportBank(rc, taps, wavOpts)
	}

	decoded, err := writeImpulse(c.Output, taps, wavOpts)
	if err != nil {
		return err
	}
	rc.logger.Info("wrote impulse response", "file", c.Output, "taps", len(taps), "rate", rate,
		"max_error", maxAbsDiff(taps, decoded))
	return nil
}

// exportBank writes one WAV per polyphase branch and checks that the files
// interleave back into the prototype.
func (c *exportCmd) exportBank(rc *runContext, taps []float64, opts export.WAVOptions) error {
	bank, err := filter.Decompose(taps, c.Channels)
	if err != nil {
		return err
	}

	readBack := &filter.Bank{
		Phases:       make([][]float64, bank.Channels),
		Channels:     bank.Channels,
		TapsPerPhase: bank.TapsPerPhase,
		TotalTaps:    bank.TotalTaps,
	}
	gains := bank.Gains()
	for p, phase := range bank.Phases {
		path := phasePath(c.Output, p)
		if readBack.Phases[p], err = writeImpulse(path, phase, opts); err != nil {
			return err
		}
		rc.logger.Debug("wrote polyphase branch", "file", path, "phase", p, "gain", gains[p])
	}

	rc.logger.Info("wrote polyphase bank", "channels", bank.Channels, "taps_per_phase", bank.TapsPerPhase,
		"rate", opts.SampleRate, "max_error", maxAbsDiff(taps, readBack.Interleave()))
	return nil
}

// writeImpulse writes taps to path and decodes the file again, returning
// the taps as stored.
func writeImpulse(path string, taps []float64, opts export.WAVOptions) ([]float64, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	peak, err := export.WriteWAV(f, taps, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	f, err = os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopening %s: %w", path, err)
	}
	defer f.Close()

	samples, rate, err := export.ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("reading back %s: %w", path, err)
	}
	if len(samples) != len(taps) || rate != opts.SampleRate {
		return nil, fmt.Errorf("%w: %s holds %d samples at %d Hz, wrote %d at %d Hz",
			errReadBack, path, len(samples), rate, len(taps), opts.SampleRate)
	}
	for i := range samples {
		samples[i] *= peak
	}
	return samples, nil
}

// phasePath inserts the branch index before the extension.
func phasePath(output string, phase int) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s.phase%02d%s", strings.TrimSuffix(output, ext), phase, ext)
}

func maxAbsDiff(a, b []float64) float64 {
	var d float64
	for i := range min(len(a), len(b)) {
		d = max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

func exportRate(cfg *config.Config, name string) int {
	switch {
	case cfg.Filters[name].SampleRate > 0:
		return int(cfg.Filters[name].SampleRate)
	case cfg.Defaults.SampleRate > 0:
		return int(cfg.Defaults.SampleRate)
	default:
		return defaultExportRate
	}
}

type infoCmd struct{}

func (infoCmd) Run(rc *runContext) error {
	_, err := fmt.Fprintln(rc.out, cpu.Info())
	return err
}

func writeReports(w io.Writer, format string, reports []export.Report) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatYAML {
		return export.WriteYAML(w, reports)
	}

	tw := tabwriter.NewWriter(w, tableMinWidth, tableTabWidth, tablePadding, tablePadChar, 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tORDER\tITER\tDELTA\tATTENUATION\tSTATUS")
	for _, r := range reports {
		status := "ok"
		if !r.Valid {
			status = r.Error
		}
		atten := make([]string, len(r.Bands))
		for i, b := range r.Bands {
			atten[i] = fmt.Sprintf("%.1f", b.AttenuationDB)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.6g\t%s\t%s\n",
			r.Name, r.Type, r.Order, r.Iterations, r.Delta, strings.Join(atten, "/"), status)
	}
	return tw.Flush()
}
