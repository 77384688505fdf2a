package model

import (
	"fmt"
	"math"
)

// Region is a rectangular page region in PDF user-space coordinates
// (origin bottom-left). Strategies that work from positioned text attach
// a region to their candidates so the promoter can match slots across
// strategies that segment a page differently. Strategies with no
// geometry (plain-text heuristics) leave it zero.
type Region struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// IsZero reports whether the region carries no geometry.
func (r Region) IsZero() bool {
	return r.X0 == 0 && r.Y0 == 0 && r.X1 == 0 && r.Y1 == 0
}

// Area returns the region's area, or 0 for degenerate regions.
func (r Region) Area() float64 {
	w := r.X1 - r.X0
	h := r.Y1 - r.Y0
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Overlap returns the intersection-over-union of two regions in [0,1].
func (r Region) Overlap(o Region) float64 {
	ix0 := math.Max(r.X0, o.X0)
	iy0 := math.Max(r.Y0, o.Y0)
	ix1 := math.Min(r.X1, o.X1)
	iy1 := math.Min(r.Y1, o.Y1)
	if ix1 <= ix0 || iy1 <= iy0 {
		return 0
	}
	inter := (ix1 - ix0) * (iy1 - iy0)
	union := r.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// CandidateTable is the output of one (strategy, page) invocation: a raw
// cell grid plus provenance. Candidates are immutable once produced;
// scoring and classification attach derived records instead of mutating
// them.
type CandidateTable struct {
	// ID is deterministic for a given document, page, strategy and
	// table index, so re-running extraction yields identical records.
	ID string `json:"id"`

	// Strategy is the identifier of the strategy that produced the
	// candidate.
	Strategy string `json:"strategy"`

	// Confidence is the strategy-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Page is the 1-indexed source page number.
	Page int `json:"page"`

	// TableIndex distinguishes multiple tables found on the same page
	// by the same strategy, in top-to-bottom order.
	TableIndex int `json:"table_index"`

	// Region is the page region the candidate was extracted from, if
	// the strategy had geometry available.
	Region Region `json:"region"`

	// Cells is the raw cell grid: ordered rows of ordered string cells.
	Cells [][]string `json:"cells"`
}

// CandidateID builds the deterministic candidate identifier.
func CandidateID(docID string, page int, strategy string, tableIndex int) string {
	return fmt.Sprintf("%s-p%03d-%s-%d", docID, page, strategy, tableIndex)
}

// RowCount returns the number of rows in the cell grid.
func (c *CandidateTable) RowCount() int {
	return len(c.Cells)
}

// ColCount returns the number of columns in the widest row.
func (c *CandidateTable) ColCount() int {
	cols := 0
	for _, row := range c.Cells {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// CellCount returns the total number of cells.
func (c *CandidateTable) CellCount() int {
	n := 0
	for _, row := range c.Cells {
		n += len(row)
	}
	return n
}

// HeaderRow returns the first row, or nil for an empty grid.
func (c *CandidateTable) HeaderRow() []string {
	if len(c.Cells) == 0 {
		return nil
	}
	return c.Cells[0]
}

// LabelColumn returns the first cell of every row.
func (c *CandidateTable) LabelColumn() []string {
	labels := make([]string, 0, len(c.Cells))
	for _, row := range c.Cells {
		if len(row) > 0 {
			labels = append(labels, row[0])
		}
	}
	return labels
}
