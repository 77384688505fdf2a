package promote

import (
	"testing"
	"time"

	"github.com/tsawler/histat/model"
)

var promotedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func scored(id, strategy string, page, tableIndex int, region model.Region, score float64) Scored {
	return Scored{
		Candidate: model.CandidateTable{
			ID:         id,
			Strategy:   strategy,
			Page:       page,
			TableIndex: tableIndex,
			Region:     region,
			Cells:      [][]string{{"a", "b"}, {"c", "d"}},
		},
		Assessment: model.QualityAssessment{CandidateID: id, Score: score},
	}
}

func TestPromoteSelectsHighestScore(t *testing.T) {
	region := model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}
	candidates := []Scored{
		scored("doc-p001-lattice-0", "lattice", 1, 0, region, 0.92),
		scored("doc-p001-stream-0", "stream", 1, 0, region, 0.85),
	}

	canonical, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(canonical) != 1 {
		t.Fatalf("Expected 1 canonical table, got %d", len(canonical))
	}
	if canonical[0].Candidate.ID != "doc-p001-lattice-0" {
		t.Errorf("Expected the lattice candidate to win, got %q", canonical[0].Candidate.ID)
	}
	if !canonical[0].PromotedAt.Equal(promotedAt) {
		t.Errorf("Expected promotion time %v, got %v", promotedAt, canonical[0].PromotedAt)
	}

	if len(decisions) != 1 {
		t.Fatalf("Expected 1 decision, got %d", len(decisions))
	}
	d := decisions[0]
	if d.Outcome != model.OutcomeCanonical {
		t.Errorf("Expected canonical outcome, got %q", d.Outcome)
	}
	if d.WinnerID != "doc-p001-lattice-0" {
		t.Errorf("Expected winner recorded, got %q", d.WinnerID)
	}
	if len(d.CandidateIDs) != 2 {
		t.Errorf("Expected both candidates recorded in the slot, got %v", d.CandidateIDs)
	}
}

func TestPromoteBelowThreshold(t *testing.T) {
	candidates := []Scored{
		scored("doc-p001-stream-0", "stream", 1, 0, model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}, 0.79),
	}

	canonical, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(canonical) != 0 {
		t.Fatalf("Expected no canonical tables below the threshold, got %d", len(canonical))
	}
	if len(decisions) != 1 {
		t.Fatalf("Expected a decision even without promotion, got %d", len(decisions))
	}
	if decisions[0].Outcome != model.OutcomeNoCanonical {
		t.Errorf("Expected no-canonical outcome, got %q", decisions[0].Outcome)
	}
	if decisions[0].WinnerID != "" {
		t.Errorf("Expected no winner, got %q", decisions[0].WinnerID)
	}
}

func TestPromoteSeparateRegionsSeparateSlots(t *testing.T) {
	// Two non-overlapping tables on the same page must not compete.
	upper := model.Region{X0: 50, Y0: 300, X1: 200, Y1: 400}
	lower := model.Region{X0: 50, Y0: 50, X1: 200, Y1: 150}
	candidates := []Scored{
		scored("doc-p001-lattice-0", "lattice", 1, 0, upper, 0.9),
		scored("doc-p001-lattice-1", "lattice", 1, 1, lower, 0.88),
	}

	canonical, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(canonical) != 2 {
		t.Fatalf("Expected 2 canonical tables, got %d", len(canonical))
	}
	if len(decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(decisions))
	}
	// Slots are numbered top to bottom.
	if decisions[0].Slot != 0 || decisions[0].WinnerID != "doc-p001-lattice-0" {
		t.Errorf("Expected the upper table in slot 0, got %+v", decisions[0])
	}
	if decisions[1].Slot != 1 || decisions[1].WinnerID != "doc-p001-lattice-1" {
		t.Errorf("Expected the lower table in slot 1, got %+v", decisions[1])
	}
}

func TestPromotePositionlessJoinsSlotByIndex(t *testing.T) {
	region := model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}
	candidates := []Scored{
		scored("doc-p001-lattice-0", "lattice", 1, 0, region, 0.9),
		scored("doc-p001-textblock-0", "textblock", 1, 0, model.Region{}, 0.6),
	}

	_, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(decisions) != 1 {
		t.Fatalf("Expected one shared slot, got %d decisions", len(decisions))
	}
	if len(decisions[0].CandidateIDs) != 2 {
		t.Errorf("Expected both candidates in the slot, got %v", decisions[0].CandidateIDs)
	}
}

func TestPromotePositionlessOverflowSlot(t *testing.T) {
	candidates := []Scored{
		scored("doc-p002-textblock-0", "textblock", 2, 0, model.Region{}, 0.85),
	}

	canonical, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(canonical) != 1 {
		t.Fatalf("Expected a positionless candidate to be promotable, got %d canonical", len(canonical))
	}
	if len(decisions) != 1 || decisions[0].WinnerID != "doc-p002-textblock-0" {
		t.Errorf("Unexpected decisions: %+v", decisions)
	}
}

func TestPromoteTieBreaks(t *testing.T) {
	region := model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}

	// Equal scores: the fixed strategy order decides, even when the
	// later strategy has the saner dimensions.
	a := scored("doc-p001-stream-0", "stream", 1, 0, region, 0.9)
	a.Assessment.DimensionsOK = true
	b := scored("doc-p001-lattice-0", "lattice", 1, 0, region, 0.9)

	canonical, _ := Promote([]Scored{a, b}, DefaultConfig(), promotedAt)
	if len(canonical) != 1 || canonical[0].Candidate.ID != "doc-p001-lattice-0" {
		t.Fatalf("Expected the strategy order to break the tie, got %+v", canonical)
	}

	// Same strategy, equal scores: dimensional sanity decides.
	c := scored("doc-p001-stream-1", "stream", 1, 1, region, 0.9)
	canonical, _ = Promote([]Scored{a, c}, DefaultConfig(), promotedAt)
	if len(canonical) != 1 || canonical[0].Candidate.ID != "doc-p001-stream-0" {
		t.Fatalf("Expected dimensional sanity to break the residual tie, got %+v", canonical)
	}
}

func TestPromoteThresholdMonotonic(t *testing.T) {
	// Raising the threshold can only remove promoted tables, never add
	// new ones: winner selection does not depend on the threshold.
	candidates := []Scored{
		scored("doc-p001-lattice-0", "lattice", 1, 0, model.Region{X0: 50, Y0: 300, X1: 200, Y1: 400}, 0.95),
		scored("doc-p001-stream-1", "stream", 1, 1, model.Region{X0: 50, Y0: 50, X1: 200, Y1: 150}, 0.82),
		scored("doc-p002-lattice-0", "lattice", 2, 0, model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}, 0.74),
	}

	promoteAt := func(threshold float64) map[string]bool {
		cfg := DefaultConfig()
		cfg.Threshold = threshold
		canonical, _ := Promote(candidates, cfg, promotedAt)
		ids := map[string]bool{}
		for _, ct := range canonical {
			ids[ct.Candidate.ID] = true
		}
		return ids
	}

	low := promoteAt(0.7)
	high := promoteAt(0.9)

	if len(low) != 3 {
		t.Fatalf("Expected all 3 candidates promoted at 0.7, got %d", len(low))
	}
	if len(high) != 1 {
		t.Fatalf("Expected 1 candidate promoted at 0.9, got %d", len(high))
	}
	for id := range high {
		if !low[id] {
			t.Errorf("Candidate %s promoted at 0.9 but not at 0.7", id)
		}
	}
}

func TestPromoteDeterministicAcrossInputOrder(t *testing.T) {
	region := model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}
	a := scored("doc-p001-lattice-0", "lattice", 1, 0, region, 0.9)
	b := scored("doc-p001-stream-0", "stream", 1, 0, region, 0.9)

	c1, _ := Promote([]Scored{a, b}, DefaultConfig(), promotedAt)
	c2, _ := Promote([]Scored{b, a}, DefaultConfig(), promotedAt)

	if len(c1) != 1 || len(c2) != 1 {
		t.Fatalf("Expected one canonical table per run, got %d and %d", len(c1), len(c2))
	}
	if c1[0].Candidate.ID != c2[0].Candidate.ID {
		t.Errorf("Expected the same winner regardless of input order: %q vs %q",
			c1[0].Candidate.ID, c2[0].Candidate.ID)
	}
}

func TestPromoteMultiplePages(t *testing.T) {
	r := model.Region{X0: 50, Y0: 40, X1: 200, Y1: 100}
	candidates := []Scored{
		scored("doc-p003-lattice-0", "lattice", 3, 0, r, 0.9),
		scored("doc-p001-lattice-0", "lattice", 1, 0, r, 0.9),
	}

	_, decisions := Promote(candidates, DefaultConfig(), promotedAt)

	if len(decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(decisions))
	}
	if decisions[0].Page != 1 || decisions[1].Page != 3 {
		t.Errorf("Expected decisions ordered by page, got pages %d and %d",
			decisions[0].Page, decisions[1].Page)
	}
}
