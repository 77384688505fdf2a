package classify

import (
	"testing"

	"github.com/tsawler/histat/model"
)

func yearHeaderTable() model.CandidateTable {
	return model.CandidateTable{
		ID:       "test-p001-lattice-0",
		Strategy: "lattice",
		Page:     1,
		Cells: [][]string{
			{"Indicator", "1958", "1959", "1960", "1961", "1962", "1963"},
			{"National income", "120", "131", "140", "152", "161", "170"},
			{"Gross investment", "45", "48", "51", "55", "58", "62"},
		},
	}
}

func TestClassifyYearHeader(t *testing.T) {
	st := Classify(yearHeaderTable(), DefaultConfig())

	if !st.IsTimeSeries {
		t.Error("Expected a year header to classify as a time series")
	}
	if st.YearRange == nil {
		t.Fatal("Expected a year range")
	}
	if st.YearRange.Min != 1958 || st.YearRange.Max != 1963 {
		t.Errorf("Expected year range 1958-1963, got %d-%d", st.YearRange.Min, st.YearRange.Max)
	}
	if st.CandidateID != "test-p001-lattice-0" {
		t.Errorf("Expected candidate ID carried through, got %q", st.CandidateID)
	}
}

func TestClassifyYearLabelColumn(t *testing.T) {
	c := model.CandidateTable{
		Cells: [][]string{
			{"Year", "Employment", "Wages"},
			{"1970", "95.2", "110"},
			{"1971", "97.9", "115"},
			{"1972", "101.4", "121"},
			{"1973", "103.0", "128"},
		},
	}

	st := Classify(c, DefaultConfig())
	if !st.IsTimeSeries {
		t.Error("Expected years down the label column to classify as a time series")
	}
	if st.YearRange == nil || st.YearRange.Min != 1970 || st.YearRange.Max != 1973 {
		t.Errorf("Unexpected year range: %+v", st.YearRange)
	}
}

func TestClassifyTooFewYears(t *testing.T) {
	c := model.CandidateTable{
		Cells: [][]string{
			{"Indicator", "1958", "1959"},
			{"Output", "120", "131"},
		},
	}

	st := Classify(c, DefaultConfig())
	if st.IsTimeSeries {
		t.Error("Expected two distinct years to fall below the time-series threshold")
	}
	if st.YearRange == nil {
		t.Fatal("Expected a year range even below the threshold")
	}
	if st.YearRange.Min != 1958 || st.YearRange.Max != 1959 {
		t.Errorf("Expected year range 1958-1959, got %d-%d", st.YearRange.Min, st.YearRange.Max)
	}
}

func TestClassifyIgnoresOutOfWindowTokens(t *testing.T) {
	// Four-digit magnitudes are common in data cells and must not be
	// mistaken for years when they land in the header.
	c := model.CandidateTable{
		Cells: [][]string{
			{"Region", "4210", "8873", "1250", "3001"},
			{"North", "1", "2", "3", "4"},
			{"South", "5", "6", "7", "8"},
		},
	}

	st := Classify(c, DefaultConfig())
	if st.IsTimeSeries {
		t.Error("Expected out-of-window tokens to be rejected as years")
	}
	if st.YearRange != nil {
		t.Errorf("Expected no year range, got %+v", st.YearRange)
	}
}

func TestClassifyNormalizesFullWidthDigits(t *testing.T) {
	c := model.CandidateTable{
		Cells: [][]string{
			{"Indicator", "１９５８", "１９５９", "１９６０", "１９６１"},
			{"Output", "120", "131", "140", "152"},
		},
	}

	st := Classify(c, DefaultConfig())
	if !st.IsTimeSeries {
		t.Error("Expected full-width year digits to classify after normalization")
	}
	if st.YearRange == nil || st.YearRange.Min != 1958 || st.YearRange.Max != 1961 {
		t.Errorf("Unexpected year range: %+v", st.YearRange)
	}
}

func TestClassifyPoolsYearsAcrossAxes(t *testing.T) {
	// Distinct years are counted over the union of both axes: two
	// header years plus two label years reach the threshold together.
	c := model.CandidateTable{
		Cells: [][]string{
			{"Period", "1958", "1959"},
			{"1960", "12.1", "13.4"},
			{"1961", "14.0", "15.2"},
		},
	}

	st := Classify(c, DefaultConfig())
	if !st.IsTimeSeries {
		t.Error("Expected years pooled across axes to classify as a time series")
	}
	if st.YearRange == nil || st.YearRange.Min != 1958 || st.YearRange.Max != 1961 {
		t.Errorf("Unexpected year range: %+v", st.YearRange)
	}
}

func TestClassifyDoesNotMutateCandidate(t *testing.T) {
	// The header row may share a backing array with other data; reading
	// it must never write past its length.
	backing := []string{"Year", "Income", "sentinel", "sentinel"}
	c := model.CandidateTable{
		Cells: [][]string{
			backing[:2],
			{"1958", "120"},
			{"1959", "131"},
		},
	}

	Classify(c, DefaultConfig())

	if backing[2] != "sentinel" || backing[3] != "sentinel" {
		t.Errorf("Expected the shared backing array untouched, got %v", backing)
	}
	if c.Cells[0][0] != "Year" || c.Cells[0][1] != "Income" {
		t.Errorf("Expected the header row unchanged, got %v", c.Cells[0])
	}
}

func TestClassifyEconomicLabels(t *testing.T) {
	st := Classify(yearHeaderTable(), DefaultConfig())

	if len(st.EconomicLabels) != 2 {
		t.Fatalf("Expected 2 economic labels, got %d: %v", len(st.EconomicLabels), st.EconomicLabels)
	}
	if st.EconomicLabels[0] != "Gross investment" || st.EconomicLabels[1] != "National income" {
		t.Errorf("Expected sorted economic labels, got %v", st.EconomicLabels)
	}
}

func TestClassifyEmptyTable(t *testing.T) {
	st := Classify(model.CandidateTable{}, DefaultConfig())
	if st.IsTimeSeries {
		t.Error("Expected an empty table not to classify as a time series")
	}
	if st.YearRange != nil {
		t.Errorf("Expected no year range, got %+v", st.YearRange)
	}
	if st.EconomicLabels != nil {
		t.Errorf("Expected no economic labels, got %v", st.EconomicLabels)
	}
}
