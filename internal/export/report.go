package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	remez "github.com/tphakala/go-fir-remez"
	"github.com/tphakala/go-fir-remez/internal/filter"
	"github.com/tphakala/go-fir-remez/internal/grid"
)

// Report summarizes one design.
type Report struct {
	Name       string       `yaml:"name"`
	Type       string       `yaml:"type"`
	Response   string       `yaml:"response"`
	Order      int          `yaml:"order"`
	Valid      bool         `yaml:"valid"`
	Error      string       `yaml:"error,omitempty"`
	Iterations int          `yaml:"iterations"`
	Delta      float64      `yaml:"delta"`
	Bands      []BandReport `yaml:"bands"`
	Taps       []float64    `yaml:"taps,omitempty"`
}

// BandReport is the measured behaviour of one band.
type BandReport struct {
	Start         float64 `yaml:"start"`
	End           float64 `yaml:"end"`
	Amplitude     float64 `yaml:"amplitude"`
	RippleDB      float64 `yaml:"ripple_db"`
	MinGain       float64 `yaml:"min_gain,omitempty"`
	MaxGain       float64 `yaml:"max_gain,omitempty"`
	Deviation     float64 `yaml:"deviation,omitempty"`
	AttenuationDB float64 `yaml:"attenuation_db,omitempty"`
}

// NewReport measures res over its bands with points response samples.
// Taps are included when withTaps is set and the design is valid.
func NewReport(name string, res *remez.Result, points int, withTaps bool) (Report, error) {
	spec := res.Specification()
	rep := Report{
		Name:       name,
		Valid:      res.Valid(),
		Iterations: res.Iterations(),
		Delta:      res.Delta(),
	}
	if spec == nil {
		rep.Error = fmt.Sprint(res.Err())
		return rep, nil
	}

	rep.Type = spec.Type().String()
	rep.Response = spec.Response().String()
	rep.Order = spec.Order()

	bands := spec.Bands()
	rep.Bands = make([]BandReport, len(bands))
	for i, b := range bands {
		rep.Bands[i] = BandReport{Start: b.Start, End: b.End, Amplitude: b.Amplitude, RippleDB: b.RippleDB}
	}

	if !res.Valid() {
		rep.Error = res.Err().Error()
		return rep, nil
	}

	taps, err := res.ImpulseResponse64()
	if err != nil {
		return rep, err
	}
	if withTaps {
		rep.Taps = taps
	}

	gridBands := make([]grid.Band, len(bands))
	for i, b := range bands {
		gridBands[i] = grid.Band{Start: b.Start, End: b.End, Amplitude: b.Amplitude}
	}
	for i, m := range filter.Measure(taps, gridBands, points) {
		rep.Bands[i].MinGain = m.MinGain
		rep.Bands[i].MaxGain = m.MaxGain
		rep.Bands[i].Deviation = m.Deviation
		rep.Bands[i].AttenuationDB = m.AttenuationDB
	}
	return rep, nil
}

// WriteYAML encodes reports as a YAML sequence.
func WriteYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
