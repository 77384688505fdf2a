package promote

import (
	"sort"
	"time"

	"github.com/tsawler/histat/model"
	"github.com/tsawler/histat/strategies"
)

// Config holds promotion configuration.
type Config struct {
	// Threshold is the minimum composite score a candidate must reach
	// to be promoted.
	Threshold float64

	// MinOverlap is the region intersection-over-union above which two
	// candidates are taken to describe the same physical table.
	MinOverlap float64

	// StrategyOrder is the fixed strategy order used to break score
	// ties.
	StrategyOrder []string
}

// DefaultConfig returns the default promotion configuration. The
// overlap floor is deliberately low: strategies crop the same table
// differently, and a quarter of shared area is already strong evidence
// of identity on a sparse page.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.8,
		MinOverlap:    0.25,
		StrategyOrder: strategies.DefaultOrder,
	}
}

// Scored bundles a candidate with its derived records for promotion.
type Scored struct {
	Candidate  model.CandidateTable
	Assessment model.QualityAssessment
	Structure  model.TimeSeriesStructure
}

// slot is one logical table slot being assembled.
type slot struct {
	page    int
	region  model.Region
	members []Scored
}

// Promote groups the scored candidates into logical table slots and
// selects at most one canonical table per slot. It returns the promoted
// tables and one decision record per slot; the two share winner IDs, so
// callers can mark candidate dispositions from the decisions alone.
func Promote(scored []Scored, cfg Config, promotedAt time.Time) ([]model.CanonicalTable, []model.SlotDecision) {
	byPage := map[int][]Scored{}
	var pages []int
	for _, s := range scored {
		p := s.Candidate.Page
		if _, ok := byPage[p]; !ok {
			pages = append(pages, p)
		}
		byPage[p] = append(byPage[p], s)
	}
	sort.Ints(pages)

	var canonical []model.CanonicalTable
	var decisions []model.SlotDecision

	for _, p := range pages {
		for i, sl := range pageSlots(byPage[p], cfg) {
			winner := sl.winner(cfg.StrategyOrder)
			d := model.SlotDecision{Page: p, Slot: i}
			for _, m := range sl.members {
				d.CandidateIDs = append(d.CandidateIDs, m.Candidate.ID)
			}

			if winner.Assessment.Score >= cfg.Threshold {
				d.WinnerID = winner.Candidate.ID
				d.Outcome = model.OutcomeCanonical
				canonical = append(canonical, model.CanonicalTable{
					Candidate:  winner.Candidate,
					Assessment: winner.Assessment,
					Structure:  winner.Structure,
					PromotedAt: promotedAt,
				})
			} else {
				d.Outcome = model.OutcomeNoCanonical
			}
			decisions = append(decisions, d)
		}
	}

	return canonical, decisions
}

// pageSlots groups one page's candidates into slots. Candidates with
// geometry are matched by region overlap; candidates without geometry
// fall back to joining the slot at their table index position.
func pageSlots(scored []Scored, cfg Config) []*slot {
	// Deterministic processing order regardless of how the caller
	// collected the candidates.
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i].Candidate, scored[j].Candidate
		ra, rb := strategies.Rank(cfg.StrategyOrder, a.Strategy), strategies.Rank(cfg.StrategyOrder, b.Strategy)
		if ra != rb {
			return ra < rb
		}
		return a.TableIndex < b.TableIndex
	})

	var slots []*slot
	var positionless []Scored

	for _, s := range scored {
		if s.Candidate.Region.IsZero() {
			positionless = append(positionless, s)
			continue
		}

		best, bestOverlap := -1, cfg.MinOverlap
		for i, sl := range slots {
			if ov := sl.region.Overlap(s.Candidate.Region); ov >= bestOverlap {
				best, bestOverlap = i, ov
			}
		}
		if best >= 0 {
			slots[best].members = append(slots[best].members, s)
			slots[best].region = union(slots[best].region, s.Candidate.Region)
		} else {
			slots = append(slots, &slot{
				page:    s.Candidate.Page,
				region:  s.Candidate.Region,
				members: []Scored{s},
			})
		}
	}

	// Top-to-bottom slot order on the page.
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].region.Y1 != slots[j].region.Y1 {
			return slots[i].region.Y1 > slots[j].region.Y1
		}
		return slots[i].region.X0 < slots[j].region.X0
	})

	// A candidate with no geometry joins the slot at its table index;
	// indexes past the known slots open new slots of their own.
	overflow := map[int]*slot{}
	for _, s := range positionless {
		idx := s.Candidate.TableIndex
		if idx < len(slots) {
			slots[idx].members = append(slots[idx].members, s)
			continue
		}
		if sl, ok := overflow[idx]; ok {
			sl.members = append(sl.members, s)
			continue
		}
		sl := &slot{page: s.Candidate.Page, members: []Scored{s}}
		overflow[idx] = sl
	}

	var overflowIdx []int
	for idx := range overflow {
		overflowIdx = append(overflowIdx, idx)
	}
	sort.Ints(overflowIdx)
	for _, idx := range overflowIdx {
		slots = append(slots, overflow[idx])
	}

	return slots
}

// winner selects the slot's best candidate. Ties cascade through
// dimensional sanity, strategy order, cell count and table index so the
// result never depends on arrival order.
func (sl *slot) winner(order []string) Scored {
	best := sl.members[0]
	for _, m := range sl.members[1:] {
		if better(m, best, order) {
			best = m
		}
	}
	return best
}

func better(a, b Scored, order []string) bool {
	if a.Assessment.Score != b.Assessment.Score {
		return a.Assessment.Score > b.Assessment.Score
	}
	ra, rb := strategies.Rank(order, a.Candidate.Strategy), strategies.Rank(order, b.Candidate.Strategy)
	if ra != rb {
		return ra < rb
	}
	if a.Assessment.DimensionsOK != b.Assessment.DimensionsOK {
		return a.Assessment.DimensionsOK
	}
	if a.Candidate.CellCount() != b.Candidate.CellCount() {
		return a.Candidate.CellCount() > b.Candidate.CellCount()
	}
	return a.Candidate.TableIndex < b.Candidate.TableIndex
}

func union(a, b model.Region) model.Region {
	if a.X0 > b.X0 {
		a.X0 = b.X0
	}
	if a.Y0 > b.Y0 {
		a.Y0 = b.Y0
	}
	if a.X1 < b.X1 {
		a.X1 = b.X1
	}
	if a.Y1 < b.Y1 {
		a.Y1 = b.Y1
	}
	return a
}
