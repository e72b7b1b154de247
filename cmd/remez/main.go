// Command remez designs optimal equiripple FIR filters.
//
// Usage:
//
//	remez design --kind lowpass --sample-rate 48000 --order 31 --pass-end 6000 --stop-start 7000
//	remez batch filters.hcl
//	remez analyze --kind lowpass --sample-rate 48000 --order 64 --pass-end 6000 --stop-start 7000
//	remez export filters.hcl channel channel.wav
//	remez info
//
// Configuration values can also be supplied through REMEZ_* environment
// variables, for example REMEZ_DEFAULTS__POLICY=soft.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

var cli struct {
	Verbose bool `short:"v" help:"Log every exchange iteration"`

	Design  designCmd  `cmd:"" help:"Design one filter from flags"`
	Batch   batchCmd   `cmd:"" help:"Design every filter in an HCL file concurrently"`
	Analyze analyzeCmd `cmd:"" help:"Measure a design against a Kaiser windowed-sinc of the same length"`
	Export  exportCmd  `cmd:"" help:"Write a filter's impulse response as a WAV file"`
	Info    infoCmd    `cmd:"" help:"Show the SIMD features the host supports"`
}

// runContext is bound to every command's Run method.
type runContext struct {
	logger *log.Logger
	out    io.Writer
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "remez"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("remez"),
		kong.Description("Parks-McClelland equiripple FIR filter designer."),
		kong.UsageOnError(),
	)

	logger := newLogger(os.Stderr, cli.Verbose)
	err := ctx.Run(&runContext{logger: logger, out: os.Stdout})
	if err != nil {
		logger.Error("command failed", "command", ctx.Command(), "err", err)
		os.Exit(1)
	}
}
