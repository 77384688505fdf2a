// Package promote selects the canonical table for each logical table
// slot from the competing strategy candidates.
//
// Candidates from different strategies that describe the same physical
// table on a page are grouped into one slot: candidates with geometry
// are matched by region overlap, candidates without geometry fall back
// to their position index on the page. Within each slot the highest
// scoring candidate wins, and it is promoted only if its score clears
// the promotion threshold. Slots where nothing clears the threshold
// produce no canonical table; their candidates remain in the run log as
// retained evidence.
//
// Selection is deterministic. Score ties are broken by the fixed
// strategy order, then by dimensional sanity, then by cell count, then
// by table index, so a rerun over the same document always promotes the
// same tables.
package promote
