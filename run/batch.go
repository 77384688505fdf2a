package run

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tsawler/histat/model"
)

// DocumentResult is the outcome of one document in a batch.
type DocumentResult struct {
	Path    string
	Summary model.DocumentSummary
	Err     error
}

// ProcessBatch runs the pipeline over every path. A document that fails
// to open or parse fails alone; the batch always attempts all paths.
// The returned error is non-nil only when the context was cancelled.
func (r *Runner) ProcessBatch(ctx context.Context, paths []string) ([]DocumentResult, error) {
	results := make([]DocumentResult, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := DocumentResult{Path: path}
		src, err := r.open(path)
		if err != nil {
			r.logger.Error("skipping document", "path", path, "error", err)
			res.Err = err
			res.Summary.DocumentID = model.DocumentID(path)
			results = append(results, res)
			continue
		}

		log, err := r.ProcessDocument(ctx, src)
		src.Close()
		res.Summary = log.Summary()
		res.Err = err
		results = append(results, res)

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

var summaryHeader = []string{"DOCUMENT", "PAGES", "CANDIDATES", "PROMOTED", "ERRORS", "STATUS"}

// RenderSummary renders the batch results as an aligned text table for
// terminal output.
func RenderSummary(results []DocumentResult) string {
	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, summaryHeader)
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		rows = append(rows, []string{
			res.Summary.DocumentID,
			fmt.Sprintf("%d", res.Summary.PagesProcessed),
			fmt.Sprintf("%d", res.Summary.CandidatesProduced),
			fmt.Sprintf("%d", res.Summary.CandidatesPromoted),
			fmt.Sprintf("%d", res.Summary.StrategyErrors),
			status,
		})
	}

	widths := make([]int, len(summaryHeader))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
