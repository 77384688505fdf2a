// Package quality scores candidate tables so the promoter can compare
// the competing strategies on equal footing.
//
// The composite score combines four signals:
//
//	0.40  numeric density    fraction of non-empty cells that parse as data
//	0.30  strategy confidence  as reported by the producing strategy
//	0.20  time-series structure  the classifier's verdict
//	0.10  dimensional sanity  grid meets minimum rows and columns
//
// Scoring is pure: it reads the candidate and the classifier's verdict
// and produces a new assessment record. Nothing is mutated and nothing
// is filtered out here; candidates below the promotion threshold stay
// in the run log as retained candidates.
package quality
