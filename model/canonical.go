package model

import "time"

// CanonicalTable is the single candidate chosen to represent a logical
// table slot, bundled with its derived records and a promotion
// timestamp. A canonical table is immutable once promoted; a later run
// that wants a different choice produces a new run record, it never
// edits history.
type CanonicalTable struct {
	Candidate  CandidateTable      `json:"candidate"`
	Assessment QualityAssessment   `json:"assessment"`
	Structure  TimeSeriesStructure `json:"structure"`
	PromotedAt time.Time           `json:"promoted_at"`
}
