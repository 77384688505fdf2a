package model

import (
	"testing"
	"time"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		chunkSize int
		want      []PageRange
	}{
		{"empty document", 0, 50, nil},
		{"single chunk", 10, 50, []PageRange{{1, 10}}},
		{"exact chunks", 100, 50, []PageRange{{1, 50}, {51, 100}}},
		{"ragged tail", 120, 50, []PageRange{{1, 50}, {51, 100}, {101, 120}}},
		{"zero chunk size", 30, 0, []PageRange{{1, 30}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.pageCount, tt.chunkSize)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d ranges, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Range %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestPartition_NonOverlapping(t *testing.T) {
	ranges := Partition(173, 50)
	covered := 0
	prevEnd := 0
	for _, r := range ranges {
		if r.Start != prevEnd+1 {
			t.Errorf("Expected range to start at %d, got %d", prevEnd+1, r.Start)
		}
		covered += r.Pages()
		prevEnd = r.End
	}
	if covered != 173 {
		t.Errorf("Expected 173 pages covered, got %d", covered)
	}
}

func TestRegionOverlap(t *testing.T) {
	a := Region{X0: 0, Y0: 0, X1: 100, Y1: 100}

	if got := a.Overlap(a); got != 1.0 {
		t.Errorf("Expected self-overlap 1.0, got %f", got)
	}

	disjoint := Region{X0: 200, Y0: 200, X1: 300, Y1: 300}
	if got := a.Overlap(disjoint); got != 0 {
		t.Errorf("Expected disjoint overlap 0, got %f", got)
	}

	half := Region{X0: 50, Y0: 0, X1: 150, Y1: 100}
	got := a.Overlap(half)
	if got < 0.3 || got > 0.4 {
		t.Errorf("Expected partial overlap around 1/3, got %f", got)
	}
}

func TestRegionIsZero(t *testing.T) {
	if !(Region{}).IsZero() {
		t.Error("Expected zero region to report IsZero")
	}
	if (Region{X1: 1}).IsZero() {
		t.Error("Expected non-zero region to report !IsZero")
	}
}

func TestCandidateTable_Dimensions(t *testing.T) {
	c := CandidateTable{
		Cells: [][]string{
			{"Year", "Income", "Capital"},
			{"1958", "100", "200"},
			{"1959", "110", "210"},
		},
	}

	if c.RowCount() != 3 {
		t.Errorf("Expected 3 rows, got %d", c.RowCount())
	}
	if c.ColCount() != 3 {
		t.Errorf("Expected 3 cols, got %d", c.ColCount())
	}
	if c.CellCount() != 9 {
		t.Errorf("Expected 9 cells, got %d", c.CellCount())
	}

	labels := c.LabelColumn()
	if len(labels) != 3 || labels[1] != "1958" {
		t.Errorf("Unexpected label column: %v", labels)
	}
	header := c.HeaderRow()
	if len(header) != 3 || header[0] != "Year" {
		t.Errorf("Unexpected header row: %v", header)
	}
}

func TestCandidateID_Deterministic(t *testing.T) {
	a := CandidateID("doc", 7, "lattice", 0)
	b := CandidateID("doc", 7, "lattice", 0)
	if a != b {
		t.Errorf("Expected identical IDs, got %q and %q", a, b)
	}
	if a != "doc-p007-lattice-0" {
		t.Errorf("Unexpected ID format: %q", a)
	}
}

func TestRunLog_Summary(t *testing.T) {
	doc := SourceDocument{ID: "doc1", PageCount: 3}
	log := NewRunLog(doc, time.Now())
	if log.RunID == "" {
		t.Fatal("Expected a run ID")
	}

	log.PagesProcessed = 3
	log.AddCandidate(CandidateRecord{
		Candidate: CandidateTable{ID: "c1"},
		Promoted:  true,
		Outcome:   CandidatePromoted,
	})
	log.AddCandidate(CandidateRecord{
		Candidate: CandidateTable{ID: "c2"},
		Outcome:   CandidateRetained,
	})
	log.AddFailure(StrategyFailure{Page: 2, Strategy: "lattice", Message: "boom"})

	s := log.Summary()
	if s.PagesProcessed != 3 {
		t.Errorf("Expected 3 pages processed, got %d", s.PagesProcessed)
	}
	if s.CandidatesProduced != 2 {
		t.Errorf("Expected 2 candidates, got %d", s.CandidatesProduced)
	}
	if s.CandidatesPromoted != 1 {
		t.Errorf("Expected 1 promoted, got %d", s.CandidatesPromoted)
	}
	if s.StrategyErrors != 1 {
		t.Errorf("Expected 1 strategy error, got %d", s.StrategyErrors)
	}

	promoted := log.Promoted()
	if len(promoted) != 1 || promoted[0].Candidate.ID != "c1" {
		t.Errorf("Unexpected promoted set: %v", promoted)
	}
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  1 234  ", "1 234"},
		{"１９５８", "1958"}, // full-width digits fold to ASCII
		{"a\tb\nc", "a b c"},
		{"", ""},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := NormalizeCell(tt.in); got != tt.want {
			t.Errorf("NormalizeCell(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDocumentID(t *testing.T) {
	if got := DocumentID("/data/Narkhoz 1965.pdf"); got != "narkhoz_1965" {
		t.Errorf("Expected narkhoz_1965, got %q", got)
	}
}
