package main

// Output formats
const (
	formatYAML  = "yaml"
	formatTable = "table"
)

// Response measurement
const defaultResponsePoints = 4096

// WAV sample rate when neither the filter nor the defaults carry one
const defaultExportRate = 48000

// Table layout
const (
	tableMinWidth = 0
	tableTabWidth = 8
	tablePadding  = 2
	tablePadChar  = ' '
)
