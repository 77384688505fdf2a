// Package classify detects time-series structure in candidate tables.
//
// Historical statistical publications arrange most of their data as
// year-over-year series: years across the header row or down the label
// column, economic indicator names on the other axis. Classification
// looks for runs of plausible four-digit years and for economic
// vocabulary in the labels; its verdict feeds the quality score and is
// recorded on every promoted table.
//
// Classification is heuristic and intentionally cheap. It never rejects
// a candidate on its own; a table that is not a time series simply
// scores lower.
package classify
