// Package strategies implements the independent table extraction
// strategies that compete to fill each logical table slot.
//
// No single extraction approach succeeds on publications spanning four
// decades of print layouts, so every page is attempted by all
// registered strategies and the best candidate wins at promotion time.
//
// # Strategies
//
// Extraction is performed by types implementing the [Strategy]
// interface. Three strategies ship with the package, run in this fixed
// order (the order affects tie-breaking only, not correctness):
//
//  1. [Lattice] - reconstructs the grid from drawn ruling lines.
//     Highest precision on bordered tables; reports confidence 0.7+
//     when it finds a ruled region, else produces nothing.
//  2. [Stream] - infers columns from whitespace alignment of
//     positioned text. More recall, lower precision; confidence is
//     capped at 0.7 to reflect the trade-off.
//  3. [TextBlock] - groups plain-text lines by repeated delimiter
//     patterns (tabs, runs of spaces). Last-resort fallback for
//     text-only pages; lowest confidence tier (capped at 0.5).
//
// A strategy that fails on a page is treated as having produced zero
// candidates for that page; it never aborts the run.
//
// # Configuration
//
// Strategy behavior is controlled by [Config]:
//
//	cfg := strategies.DefaultConfig()
//	cfg.AlignmentTolerance = 4.0
//	ss := strategies.Default(cfg)
//
// Note that Config.MinRows/MinCols are the structural minimums for a
// grid to count as a table at all (2x2); the stricter dimensional
// sanity thresholds used for quality scoring live in the quality
// package.
package strategies
