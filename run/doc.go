// Package run orchestrates the extraction pipeline over documents.
//
// A [Runner] processes one document end to end: it partitions the
// pages into chunks, runs every extraction strategy over every page on
// a bounded worker pool, scores and classifies the candidates, promotes
// the canonical tables and writes the CSV and run-log outputs.
//
// Page chunks are processed concurrently, but results are reassembled
// in chunk order before promotion, so concurrency never changes the
// output. Cancellation is honored between page units; chunks that
// completed before cancellation keep their entries in the run log.
//
// Batch processing is deliberately forgiving: a document that cannot be
// opened or parsed fails alone, and the batch moves on to the next one.
package run
