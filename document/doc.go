// Package document loads source publications and exposes scoped,
// read-only page access to the extraction pipeline.
//
// [Open] validates that the file exists, is non-empty and is a readable
// PDF container, returning a [DocumentError] otherwise. The returned
// [Reader] owns the file handle; Close releases it and must run on all
// exit paths.
//
// Each [Page] carries three views of the same page, one per extraction
// strategy family:
//
//   - Fragments - positioned text runs (stream strategy)
//   - Rects     - drawn rectangles, the ruling lines of bordered
//     tables (lattice strategy)
//   - PlainText - the page text in reading order (text-block strategy)
//
// # Scanned pages
//
// Publications from the 1950s-1990s are frequently pure scans with no
// embedded text layer. When a page yields neither fragments nor plain
// text, and an OCR client plus a page-image directory are configured,
// the reader looks for a sidecar scan (page-NNNN.tif/.png/.jpg/.g4 as
// produced by digitization pipelines), decodes it and recovers the page
// text through OCR. OCR failures degrade to an empty page; they never
// abort the run.
package document
