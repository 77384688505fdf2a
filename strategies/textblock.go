package strategies

import (
	"math"
	"regexp"

	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
)

// Delimiters that separate fields in plain text: tabs or runs of two or
// more spaces.
var fieldDelimiter = regexp.MustCompile(`\t+| {2,}`)

// TextBlock is the last-resort strategy for pages with no usable
// geometry, typically OCR output. It splits plain-text lines on tab and
// multi-space delimiters and groups consecutive multi-field lines into
// table blocks. It carries no positional information, so candidates
// have a zero Region, and confidence is capped at 0.5.
type TextBlock struct {
	cfg Config
}

// Name returns the strategy identifier ("textblock").
func (s *TextBlock) Name() string { return NameTextBlock }

// Extract groups consecutive delimiter-split lines into candidate
// tables.
func (s *TextBlock) Extract(page *document.Page) ([]model.CandidateTable, error) {
	var candidates []model.CandidateTable
	var block [][]string

	flush := func() {
		if c, ok := s.blockCandidate(page, block); ok {
			c.TableIndex = len(candidates)
			candidates = append(candidates, c)
		}
		block = nil
	}

	for _, line := range page.Lines() {
		fields := splitFields(line)
		if len(fields) >= 2 {
			block = append(block, fields)
		} else {
			flush()
		}
	}
	flush()

	return candidates, nil
}

// blockCandidate turns consecutive multi-field lines into a candidate.
// Rows are padded to the widest line so the cell grid is rectangular.
func (s *TextBlock) blockCandidate(page *document.Page, block [][]string) (model.CandidateTable, bool) {
	if len(block) < s.cfg.MinRows {
		return model.CandidateTable{}, false
	}

	cols := 0
	for _, row := range block {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols < s.cfg.MinCols {
		return model.CandidateTable{}, false
	}

	cells := make([][]string, len(block))
	matching := 0
	for i, row := range block {
		if len(row) == cols {
			matching++
		}
		cells[i] = make([]string, cols)
		copy(cells[i], row)
	}

	// Consistency of field counts across lines is the only structural
	// evidence available here.
	consistency := float64(matching) / float64(len(block))
	conf := math.Min(0.5, 0.3+0.2*consistency)

	return model.CandidateTable{
		Strategy:   NameTextBlock,
		Confidence: conf,
		Page:       page.Number,
		Cells:      cells,
	}, true
}

// splitFields splits a line on field delimiters, dropping empty leading
// and trailing fields.
func splitFields(line string) []string {
	raw := fieldDelimiter.Split(line, -1)
	fields := raw[:0]
	for _, f := range raw {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
