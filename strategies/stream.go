package strategies

import (
	"math"
	"sort"

	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
)

// Stream detects tables from whitespace alignment alone: fragments are
// clustered into rows by vertical position, and column boundaries are
// the left edges that repeat across enough rows. It recovers borderless
// tables the lattice strategy cannot see, at lower precision, so its
// confidence is capped at 0.7.
type Stream struct {
	cfg Config
}

// Name returns the strategy identifier ("stream").
func (s *Stream) Name() string { return NameStream }

// fragmentRow is one clustered line of fragments.
type fragmentRow struct {
	y     float64
	frags []document.Fragment
}

// Extract clusters fragments into rows, splits the rows into blocks at
// large vertical gaps, and emits a candidate for every block with
// enough aligned columns.
func (s *Stream) Extract(page *document.Page) ([]model.CandidateTable, error) {
	if len(page.Fragments) < s.cfg.MinRows*s.cfg.MinCols {
		return nil, nil
	}

	rows := s.clusterRows(page.Fragments)

	var candidates []model.CandidateTable
	for _, block := range s.blocks(rows) {
		if c, ok := s.blockCandidate(page, block); ok {
			c.TableIndex = len(candidates)
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// clusterRows groups fragments into rows by Y position, top to bottom.
func (s *Stream) clusterRows(frags []document.Fragment) []fragmentRow {
	sorted := sortFragments(frags)

	var rows []fragmentRow
	current := fragmentRow{y: sorted[0].Y, frags: []document.Fragment{sorted[0]}}
	for _, f := range sorted[1:] {
		if current.y-f.Y <= s.cfg.AlignmentTolerance {
			current.frags = append(current.frags, f)
		} else {
			rows = append(rows, current)
			current = fragmentRow{y: f.Y, frags: []document.Fragment{f}}
		}
	}
	rows = append(rows, current)

	for i := range rows {
		sort.SliceStable(rows[i].frags, func(a, b int) bool {
			return rows[i].frags[a].X < rows[i].frags[b].X
		})
	}
	return rows
}

// blocks splits consecutive rows into blocks at vertical gaps larger
// than MaxRowGap.
func (s *Stream) blocks(rows []fragmentRow) [][]fragmentRow {
	var blocks [][]fragmentRow
	current := []fragmentRow{rows[0]}
	for _, r := range rows[1:] {
		if current[len(current)-1].y-r.y > s.cfg.MaxRowGap {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, r)
	}
	blocks = append(blocks, current)
	return blocks
}

// blockCandidate turns one block of rows into a candidate table if
// enough column boundaries repeat across its rows.
func (s *Stream) blockCandidate(page *document.Page, block []fragmentRow) (model.CandidateTable, bool) {
	if len(block) < s.cfg.MinRows {
		return model.CandidateTable{}, false
	}

	boundaries := s.columnBoundaries(block)
	if len(boundaries) < s.cfg.MinCols {
		return model.CandidateTable{}, false
	}

	cells := make([][]string, len(block))
	assigned, total := 0, 0
	region := model.Region{X0: math.MaxFloat64, Y0: math.MaxFloat64, X1: -math.MaxFloat64, Y1: -math.MaxFloat64}

	for i, row := range block {
		byCol := make([][]document.Fragment, len(boundaries))
		for _, f := range row.frags {
			total++
			col := columnIndex(f.X, boundaries, s.cfg.SnapTolerance)
			if col >= 0 {
				byCol[col] = append(byCol[col], f)
				assigned++
			}
			region.X0 = math.Min(region.X0, f.X)
			region.X1 = math.Max(region.X1, f.X+f.W)
			region.Y0 = math.Min(region.Y0, f.Y)
			region.Y1 = math.Max(region.Y1, f.Y+f.FontSize)
		}
		cells[i] = make([]string, len(boundaries))
		for j, colFrags := range byCol {
			cells[i][j] = joinFragments(colFrags)
		}
	}

	if total == 0 {
		return model.CandidateTable{}, false
	}

	// Confidence grows with assignment coverage but never exceeds the
	// 0.7 cap: alignment evidence is weaker than drawn ruling lines.
	coverage := float64(assigned) / float64(total)
	conf := math.Min(0.7, 0.35+0.35*coverage)

	return model.CandidateTable{
		Strategy:   NameStream,
		Confidence: conf,
		Page:       page.Number,
		Region:     region,
		Cells:      cells,
	}, true
}

// columnBoundaries finds left-edge X positions that repeat in at least
// MinColumnHits of the block's rows, snapped to the snap tolerance.
func (s *Stream) columnBoundaries(block []fragmentRow) []float64 {
	hits := make(map[float64]int)
	for _, row := range block {
		seen := make(map[float64]bool)
		for _, f := range row.frags {
			snapped := math.Round(f.X/s.cfg.SnapTolerance) * s.cfg.SnapTolerance
			if !seen[snapped] {
				seen[snapped] = true
				hits[snapped]++
			}
		}
	}

	minHits := int(math.Ceil(float64(len(block)) * s.cfg.MinColumnHits))
	if minHits < 2 {
		minHits = 2
	}

	var boundaries []float64
	for x, n := range hits {
		if n >= minHits {
			boundaries = append(boundaries, x)
		}
	}
	sort.Float64s(boundaries)
	return boundaries
}

// columnIndex returns the column a fragment belongs to, or -1 when the
// fragment starts left of the first boundary.
func columnIndex(x float64, boundaries []float64, tolerance float64) int {
	for i := len(boundaries) - 1; i >= 0; i-- {
		if x >= boundaries[i]-tolerance {
			return i
		}
	}
	return -1
}
