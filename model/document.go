package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SourceDocument identifies a loaded source publication. It is immutable
// once the document has been opened and is owned by a single extraction
// run.
type SourceDocument struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	PageCount    int       `json:"page_count"`
	CreationDate time.Time `json:"creation_date,omitempty"`
}

// DocumentID derives a stable document identifier from a file path: the
// base name without extension, lowercased, with spaces replaced by
// underscores.
func DocumentID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	return strings.ReplaceAll(base, " ", "_")
}

// PageRange is a contiguous, inclusive span of 1-indexed pages used to
// bound a strategy invocation.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether the page falls inside the range.
func (r PageRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Partition splits a document of pageCount pages into non-overlapping
// chunks of at most chunkSize pages. A chunkSize <= 0 yields a single
// range covering the whole document.
func Partition(pageCount, chunkSize int) []PageRange {
	if pageCount <= 0 {
		return nil
	}
	if chunkSize <= 0 || chunkSize >= pageCount {
		return []PageRange{{Start: 1, End: pageCount}}
	}

	var ranges []PageRange
	for start := 1; start <= pageCount; start += chunkSize {
		end := start + chunkSize - 1
		if end > pageCount {
			end = pageCount
		}
		ranges = append(ranges, PageRange{Start: start, End: end})
	}
	return ranges
}
