package strategies

import (
	"math"
	"sort"

	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
)

// Maximum thickness of a drawn rectangle that still counts as a ruling
// line rather than a box.
const ruleThickness = 2.5

// Lattice detects tables from their drawn ruling lines. Bordered
// government tables draw every cell boundary, so when a ruled region is
// found the extraction is high precision and the strategy reports
// confidence 0.7 and up. Pages without ruling lines produce nothing.
type Lattice struct {
	cfg Config
}

// Name returns the strategy identifier ("lattice").
func (s *Lattice) Name() string { return NameLattice }

// rulingLine is one reconstructed ruling line: its position on the
// alignment axis and its extent on the perpendicular axis.
type rulingLine struct {
	pos float64
	lo  float64
	hi  float64
}

// Extract reconstructs grids from ruling lines and reads cell text from
// the page's positioned fragments.
func (s *Lattice) Extract(page *document.Page) ([]model.CandidateTable, error) {
	hLines, vLines := splitRulings(page.Rects)
	if len(hLines) < s.cfg.MinRows+1 || len(vLines) < s.cfg.MinCols+1 {
		return nil, nil
	}

	hGroups := groupRulings(hLines, s.cfg.SnapTolerance)
	vGroups := groupRulings(vLines, s.cfg.SnapTolerance)
	if len(hGroups) < s.cfg.MinRows+1 || len(vGroups) < s.cfg.MinCols+1 {
		return nil, nil
	}

	// Horizontal lines sorted top to bottom; a large vertical gap
	// between consecutive lines separates distinct tables.
	sort.Slice(hGroups, func(i, j int) bool { return hGroups[i].pos > hGroups[j].pos })
	sort.Slice(vGroups, func(i, j int) bool { return vGroups[i].pos < vGroups[j].pos })

	var candidates []model.CandidateTable
	for _, band := range s.bands(hGroups) {
		if c, ok := s.gridCandidate(page, band, vGroups); ok {
			c.TableIndex = len(candidates)
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// bands splits the top-to-bottom horizontal lines into contiguous
// groups separated by more than MaxRowGap.
func (s *Lattice) bands(hGroups []rulingLine) [][]rulingLine {
	var bands [][]rulingLine
	current := []rulingLine{hGroups[0]}
	for i := 1; i < len(hGroups); i++ {
		if current[len(current)-1].pos-hGroups[i].pos > s.cfg.MaxRowGap {
			bands = append(bands, current)
			current = nil
		}
		current = append(current, hGroups[i])
	}
	bands = append(bands, current)
	return bands
}

// gridCandidate builds one candidate table from a band of horizontal
// lines and the vertical lines spanning it.
func (s *Lattice) gridCandidate(page *document.Page, band []rulingLine, vGroups []rulingLine) (model.CandidateTable, bool) {
	if len(band) < s.cfg.MinRows+1 {
		return model.CandidateTable{}, false
	}

	top := band[0].pos
	bottom := band[len(band)-1].pos

	// Keep vertical lines that cover at least half the band height.
	var vs []rulingLine
	for _, v := range vGroups {
		overlap := math.Min(v.hi, top) - math.Max(v.lo, bottom)
		if overlap >= (top-bottom)*0.5 {
			vs = append(vs, v)
		}
	}
	if len(vs) < s.cfg.MinCols+1 {
		return model.CandidateTable{}, false
	}

	rows := len(band) - 1
	cols := len(vs) - 1
	left := vs[0].pos
	right := vs[len(vs)-1].pos

	cells := make([][]string, rows)
	occupied := 0
	for i := 0; i < rows; i++ {
		cells[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			text := cellText(page.Fragments, vs[j].pos, vs[j+1].pos, band[i+1].pos, band[i].pos)
			cells[i][j] = text
			if text != "" {
				occupied++
			}
		}
	}

	conf := s.confidence(band, vs, occupied, rows*cols)

	return model.CandidateTable{
		Strategy:   NameLattice,
		Confidence: conf,
		Page:       page.Number,
		Region:     model.Region{X0: left, Y0: bottom, X1: right, Y1: top},
		Cells:      cells,
	}, true
}

// confidence scores a ruled grid. Finding ruling lines at all is strong
// evidence, so the baseline is 0.7; regularity of the spacing and cell
// occupancy add up to 0.28 more.
func (s *Lattice) confidence(band, vs []rulingLine, occupied, totalCells int) float64 {
	conf := 0.7

	rowHeights := make([]float64, len(band)-1)
	for i := 0; i < len(band)-1; i++ {
		rowHeights[i] = band[i].pos - band[i+1].pos
	}
	colWidths := make([]float64, len(vs)-1)
	for i := 0; i < len(vs)-1; i++ {
		colWidths[i] = vs[i+1].pos - vs[i].pos
	}
	regularity := (math.Max(0, 1-coefficientOfVariation(rowHeights)) +
		math.Max(0, 1-coefficientOfVariation(colWidths))) / 2
	conf += regularity * 0.15

	if totalCells > 0 {
		conf += float64(occupied) / float64(totalCells) * 0.13
	}

	return math.Min(conf, 0.98)
}

// splitRulings classifies drawn rectangles into horizontal and vertical
// ruling lines. Thin rects are lines; full boxes contribute all four
// edges.
func splitRulings(rects []document.Rect) (hs, vs []rulingLine) {
	for _, r := range rects {
		w, h := r.Width(), r.Height()
		switch {
		case h <= ruleThickness && w > ruleThickness:
			hs = append(hs, rulingLine{pos: (r.Y0 + r.Y1) / 2, lo: r.X0, hi: r.X1})
		case w <= ruleThickness && h > ruleThickness:
			vs = append(vs, rulingLine{pos: (r.X0 + r.X1) / 2, lo: r.Y0, hi: r.Y1})
		case w > ruleThickness && h > ruleThickness:
			hs = append(hs,
				rulingLine{pos: r.Y0, lo: r.X0, hi: r.X1},
				rulingLine{pos: r.Y1, lo: r.X0, hi: r.X1})
			vs = append(vs,
				rulingLine{pos: r.X0, lo: r.Y0, hi: r.Y1},
				rulingLine{pos: r.X1, lo: r.Y0, hi: r.Y1})
		}
	}
	return hs, vs
}

// groupRulings merges lines aligned within the tolerance into one line
// whose extent spans all members.
func groupRulings(lines []rulingLine, tolerance float64) []rulingLine {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]rulingLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].pos < sorted[j].pos })

	groups := []rulingLine{sorted[0]}
	for _, l := range sorted[1:] {
		last := &groups[len(groups)-1]
		if l.pos-last.pos <= tolerance {
			last.pos = (last.pos + l.pos) / 2
			last.lo = math.Min(last.lo, l.lo)
			last.hi = math.Max(last.hi, l.hi)
		} else {
			groups = append(groups, l)
		}
	}
	return groups
}

// cellText gathers the fragments whose anchor point falls inside the
// cell bounds and joins them in reading order.
func cellText(frags []document.Fragment, x0, x1, y0, y1 float64) string {
	var inside []document.Fragment
	for _, f := range frags {
		if f.X >= x0 && f.X < x1 && f.Y > y0 && f.Y <= y1 {
			inside = append(inside, f)
		}
	}
	return joinFragments(inside)
}
