// Package output writes the extraction results to disk.
//
// Every canonical table becomes one CSV file and every run produces one
// JSON run log, named after the document so reruns address the same
// files:
//
//	<document>_page<page>_table<index>.csv
//	<document>_extraction.json
//
// All writes are atomic: content goes to a temp file in the destination
// directory, is synced, and is renamed into place. A crashed or
// cancelled run therefore never leaves a partially written file behind;
// readers see either the previous complete version or the new one.
package output
