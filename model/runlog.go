package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot decision outcomes. "No canonical" is an expected outcome, not an
// error: it records that extraction was attempted and no candidate
// cleared the threshold, distinct from "not attempted".
const (
	OutcomeCanonical   = "canonical"
	OutcomeNoCanonical = "extraction attempted, no canonical table produced"
)

// Per-candidate outcomes recorded in the log.
const (
	CandidatePromoted = "promoted"
	CandidateRetained = "extracted but not canonical"
)

// CandidateRecord bundles one candidate with its derived records and its
// final disposition.
type CandidateRecord struct {
	Candidate  CandidateTable      `json:"candidate"`
	Assessment QualityAssessment   `json:"assessment"`
	Structure  TimeSeriesStructure `json:"structure"`
	Promoted   bool                `json:"promoted"`
	Outcome    string              `json:"outcome"`
}

// StrategyFailure records a strategy that threw on a page. The failure
// was recovered locally: that (strategy, page) pair simply contributed
// zero candidates.
type StrategyFailure struct {
	Page     int    `json:"page"`
	Strategy string `json:"strategy"`
	Message  string `json:"message"`
}

// SlotDecision records the promotion decision for one logical slot.
type SlotDecision struct {
	Page         int      `json:"page"`
	Slot         int      `json:"slot"`
	CandidateIDs []string `json:"candidate_ids"`
	WinnerID     string   `json:"winner_id,omitempty"`
	Outcome      string   `json:"outcome"`
}

// RunLog is the append-only audit record of one extraction run over one
// document. It is owned by the run and passed explicitly through the
// pipeline; there is no ambient logging state. Partial logs for
// completed page ranges remain valid if the run is cancelled.
type RunLog struct {
	RunID     string         `json:"run_id"`
	Document  SourceDocument `json:"document"`
	StartedAt time.Time      `json:"started_at"`

	PagesProcessed int               `json:"pages_processed"`
	Candidates     []CandidateRecord `json:"candidates"`
	Failures       []StrategyFailure `json:"failures,omitempty"`
	Decisions      []SlotDecision    `json:"decisions"`
}

// NewRunLog creates a run log for one document. Every run gets a fresh
// random run ID: runs are new records, never mutations of history.
func NewRunLog(doc SourceDocument, startedAt time.Time) *RunLog {
	return &RunLog{
		RunID:     uuid.NewString(),
		Document:  doc,
		StartedAt: startedAt,
	}
}

// AddCandidate appends a candidate record.
func (l *RunLog) AddCandidate(rec CandidateRecord) {
	l.Candidates = append(l.Candidates, rec)
}

// AddFailure appends a recovered strategy failure.
func (l *RunLog) AddFailure(f StrategyFailure) {
	l.Failures = append(l.Failures, f)
}

// AddDecision appends a slot decision.
func (l *RunLog) AddDecision(d SlotDecision) {
	l.Decisions = append(l.Decisions, d)
}

// Promoted returns the candidate records that were promoted, in log
// order.
func (l *RunLog) Promoted() []CandidateRecord {
	var out []CandidateRecord
	for _, rec := range l.Candidates {
		if rec.Promoted {
			out = append(out, rec)
		}
	}
	return out
}

// DocumentSummary holds the per-document completion counts. A run
// reports counts, never a single pass/fail: partial success is the
// expected common case.
type DocumentSummary struct {
	DocumentID         string `json:"document_id"`
	PagesProcessed     int    `json:"pages_processed"`
	CandidatesProduced int    `json:"candidates_produced"`
	CandidatesPromoted int    `json:"candidates_promoted"`
	StrategyErrors     int    `json:"strategy_errors"`
}

// Summary derives the completion counts from the log.
func (l *RunLog) Summary() DocumentSummary {
	s := DocumentSummary{
		DocumentID:         l.Document.ID,
		PagesProcessed:     l.PagesProcessed,
		CandidatesProduced: len(l.Candidates),
		StrategyErrors:     len(l.Failures),
	}
	for _, rec := range l.Candidates {
		if rec.Promoted {
			s.CandidatesPromoted++
		}
	}
	return s
}
