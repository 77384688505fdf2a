// Package model provides the value records shared by the extraction
// pipeline.
//
// Every stage of the pipeline produces immutable records rather than
// mutating shared state: a [CandidateTable] is produced once by a
// strategy and never edited; quality scoring and structure
// classification attach derived records ([QualityAssessment],
// [TimeSeriesStructure]); promotion bundles the winner into a
// [CanonicalTable]. The [RunLog] is the append-only audit trail that
// records everything that was tried and why it lost.
//
// # Candidates and slots
//
// A [CandidateTable] is one strategy's extraction attempt for one table
// region on one page. Multiple strategies compete to fill the same
// logical slot (same page, same region); the promoter picks at most one
// winner per slot. Candidates carry an optional [Region] so slots can be
// matched across strategies that disagree on page segmentation.
//
// # Audit trail
//
// The [RunLog] records every candidate (promoted or not) together with
// its assessment, every strategy failure, and every slot decision.
// Candidates are never deleted from the log, only superseded in the
// promotion decision. Summary() derives the per-document completion
// counts: pages processed, candidates produced, candidates promoted,
// strategies that threw errors.
package model
