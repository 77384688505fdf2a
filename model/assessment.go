package model

// Validation issues recorded on a QualityAssessment. Issues are
// informational: a candidate with issues stays in the run log, it just
// tends not to clear the promotion threshold.
const (
	IssueLowNumericDensity = "low numeric density"
	IssueTooFewRows        = "too few rows"
	IssueTooFewColumns     = "too few columns"
	IssueEmptyTable        = "empty table"
	IssueLowConfidence     = "low strategy confidence"
)

// QualityAssessment is the derived quality record for one candidate. It
// never mutates the candidate it was computed from.
type QualityAssessment struct {
	CandidateID string `json:"candidate_id"`

	// NumericDensity is the fraction of non-empty cells that parse as a
	// number or match a 4-digit year token, in [0,1].
	NumericDensity float64 `json:"numeric_density"`

	// DimensionsOK reports whether the grid meets the minimum row and
	// column thresholds.
	DimensionsOK bool `json:"dimensions_ok"`

	// TimeSeries mirrors the classifier's verdict that contributed to
	// the composite score.
	TimeSeries bool `json:"time_series"`

	// Score is the composite quality score in [0,1].
	Score float64 `json:"score"`

	// Issues lists detected validation issues, in detection order.
	Issues []string `json:"issues,omitempty"`
}

// TimeSeriesStructure is the derived structural record for one
// candidate: whether it encodes a time series and over which years.
type TimeSeriesStructure struct {
	CandidateID string `json:"candidate_id"`

	IsTimeSeries bool `json:"is_time_series"`

	// YearRange is the inferred (min,max) year span, nil when no year
	// tokens were found.
	YearRange *YearRange `json:"year_range,omitempty"`

	// EconomicLabels lists row/column labels that matched the economic
	// vocabulary. Informational only; never affects promotion.
	EconomicLabels []string `json:"economic_labels,omitempty"`
}

// YearRange is an inclusive span of calendar years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
