package quality

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/histat/model"
)

// Score weights. They sum to 1 so the composite score stays in [0,1].
const (
	weightNumericDensity = 0.4
	weightConfidence     = 0.3
	weightTimeSeries     = 0.2
	weightDimensions     = 0.1
)

// Below this density the low-numeric-density issue is recorded.
const lowDensityThreshold = 0.3

// Config holds quality scoring configuration.
type Config struct {
	// MinRows and MinColumns are the dimensional sanity thresholds. A
	// grid meeting both earns the dimensional term of the score; smaller
	// grids are still scored and can still be promoted on the strength
	// of the other terms.
	MinRows    int
	MinColumns int
}

// DefaultConfig returns the default quality configuration. Published
// statistical tables usually run well past five rows and five columns;
// smaller grids are more often extraction artifacts.
func DefaultConfig() Config {
	return Config{
		MinRows:    5,
		MinColumns: 5,
	}
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// numericNoise strips the decoration print and OCR leave on numbers:
// thousands separators, currency markers, percent signs and the
// parenthesized-negative convention.
var numericNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"$", "",
	"%", "",
	"(", "",
	")", "",
)

// Assess scores one candidate against the classifier's verdict. The
// candidate is read, never modified.
func Assess(c model.CandidateTable, st model.TimeSeriesStructure, cfg Config) model.QualityAssessment {
	a := model.QualityAssessment{
		CandidateID: c.ID,
		TimeSeries:  st.IsTimeSeries,
	}

	nonEmpty, numeric := 0, 0
	for _, row := range c.Cells {
		for _, cell := range row {
			text := model.NormalizeCell(cell)
			if text == "" {
				continue
			}
			nonEmpty++
			if IsNumericCell(text) {
				numeric++
			}
		}
	}

	if nonEmpty > 0 {
		a.NumericDensity = float64(numeric) / float64(nonEmpty)
	}
	a.DimensionsOK = c.RowCount() >= cfg.MinRows && c.ColCount() >= cfg.MinColumns

	a.Score = weightNumericDensity*a.NumericDensity +
		weightConfidence*c.Confidence +
		boolTerm(a.TimeSeries, weightTimeSeries) +
		boolTerm(a.DimensionsOK, weightDimensions)

	if nonEmpty == 0 {
		a.Issues = append(a.Issues, model.IssueEmptyTable)
		return a
	}

	if a.NumericDensity < lowDensityThreshold {
		a.Issues = append(a.Issues, model.IssueLowNumericDensity)
	}
	if c.RowCount() < cfg.MinRows {
		a.Issues = append(a.Issues, model.IssueTooFewRows)
	}
	if c.ColCount() < cfg.MinColumns {
		a.Issues = append(a.Issues, model.IssueTooFewColumns)
	}
	if c.Confidence < 0.5 {
		a.Issues = append(a.Issues, model.IssueLowConfidence)
	}

	return a
}

// IsNumericCell reports whether a normalized cell reads as data: a
// number after stripping print decoration, or a bare four-digit year.
func IsNumericCell(text string) bool {
	if yearPattern.MatchString(text) {
		return true
	}
	stripped := numericNoise.Replace(text)
	if stripped == "" {
		return false
	}
	_, err := strconv.ParseFloat(stripped, 64)
	return err == nil
}

func boolTerm(b bool, weight float64) float64 {
	if b {
		return weight
	}
	return 0
}
