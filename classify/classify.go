package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/histat/model"
)

// Config holds classification configuration.
type Config struct {
	// YearMin and YearMax bound the four-digit tokens accepted as
	// calendar years. Tokens outside the window are treated as plain
	// numbers (population counts, index values).
	YearMin int
	YearMax int

	// MinDistinctYears is the number of distinct in-window years a
	// candidate must carry before it counts as a time series.
	MinDistinctYears int
}

// DefaultConfig returns the default classification configuration. The
// year window covers the publication era with headroom for projected
// values printed in later volumes.
func DefaultConfig() Config {
	return Config{
		YearMin:          1900,
		YearMax:          2035,
		MinDistinctYears: 4,
	}
}

var yearToken = regexp.MustCompile(`\b(\d{4})\b`)

// economicVocabulary is the label vocabulary of the publications this
// pipeline targets. Matching is case-insensitive substring matching, so
// "Gross fixed investment" matches "investment".
var economicVocabulary = []string{
	"income",
	"investment",
	"employment",
	"production",
	"output",
	"capital",
	"consumption",
	"wages",
	"labor",
	"labour",
	"trade",
	"expenditure",
	"revenue",
	"gdp",
	"gnp",
	"index",
	"price",
	"agriculture",
	"industry",
	"population",
}

// Classify derives the time-series structure of one candidate table.
// Years are looked for on both axes: the header row and the label
// column. The candidate itself is never modified.
func Classify(c model.CandidateTable, cfg Config) model.TimeSeriesStructure {
	years := map[int]bool{}
	collectYears(c.HeaderRow(), cfg, years)
	collectYears(c.LabelColumn(), cfg, years)

	st := model.TimeSeriesStructure{
		CandidateID:    c.ID,
		EconomicLabels: economicLabels(c),
	}

	if len(years) == 0 {
		return st
	}

	min, max := 0, 0
	for y := range years {
		if min == 0 || y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	st.YearRange = &model.YearRange{Min: min, Max: max}
	st.IsTimeSeries = len(years) >= cfg.MinDistinctYears
	return st
}

// collectYears adds the in-window four-digit tokens of the given cells
// to the set.
func collectYears(cells []string, cfg Config, years map[int]bool) {
	for _, cell := range cells {
		for _, m := range yearToken.FindAllString(model.NormalizeCell(cell), -1) {
			y, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			if y >= cfg.YearMin && y <= cfg.YearMax {
				years[y] = true
			}
		}
	}
}

// economicLabels returns the header and label cells that match the
// economic vocabulary, deduplicated and sorted.
func economicLabels(c model.CandidateTable) []string {
	header, labels := c.HeaderRow(), c.LabelColumn()
	cells := make([]string, 0, len(header)+len(labels))
	cells = append(cells, header...)
	cells = append(cells, labels...)

	seen := map[string]bool{}
	for _, cell := range cells {
		text := model.NormalizeCell(cell)
		lower := strings.ToLower(text)
		for _, term := range economicVocabulary {
			if strings.Contains(lower, term) {
				seen[text] = true
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
