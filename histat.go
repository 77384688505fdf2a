// Package histat provides a fluent API for extracting structured
// time-series tables from scanned statistical publications.
//
// Basic usage:
//
//	log, err := histat.Open("yearbook 1963.pdf").Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("promoted %d tables\n", log.Summary().CandidatesPromoted)
//
// With options:
//
//	log, err := histat.Open("yearbook 1963.pdf").
//	    OutputDir("out").
//	    Threshold(0.85).
//	    Workers(4).
//	    Run(ctx)
//
// Every canonical table is written as a CSV file and the full audit
// trail of the run as a JSON run log. For advanced use cases the
// lower-level run and document packages are also available.
package histat

import (
	"context"
	"log/slog"

	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
	"github.com/tsawler/histat/run"
)

// Extraction provides a fluent interface for configuring and running
// the pipeline over one document. Each configuration method returns a
// new Extraction instance, making chains safe to share and reuse.
type Extraction struct {
	filename string
	cfg      run.Config
	logger   *slog.Logger
	ocr      document.OCRClient
	imageDir string
}

// Open prepares an extraction for one document. Nothing is read until
// a terminal operation runs.
//
// Example:
//
//	log, err := histat.Open("yearbook 1963.pdf").Run(ctx)
func Open(filename string) *Extraction {
	return &Extraction{
		filename: filename,
		cfg:      run.DefaultConfig(),
	}
}

// clone creates a copy of the Extraction so chain methods never mutate
// their receiver.
func (e *Extraction) clone() *Extraction {
	c := *e
	return &c
}

// OutputDir sets the directory receiving the CSV and run-log files.
// An empty directory disables writing; the run log is still returned.
func (e *Extraction) OutputDir(dir string) *Extraction {
	c := e.clone()
	c.cfg.OutputDir = dir
	return c
}

// Threshold sets the minimum composite score for promotion.
func (e *Extraction) Threshold(v float64) *Extraction {
	c := e.clone()
	c.cfg.PromotionThreshold = v
	return c
}

// Workers caps the number of page chunks processed concurrently.
func (e *Extraction) Workers(n int) *Extraction {
	c := e.clone()
	c.cfg.Workers = n
	return c
}

// ChunkSize bounds the pages handed to one worker at a time.
func (e *Extraction) ChunkSize(n int) *Extraction {
	c := e.clone()
	c.cfg.PageChunkSize = n
	return c
}

// Strategies overrides the strategy order. Unknown names fail the run.
func (e *Extraction) Strategies(names ...string) *Extraction {
	c := e.clone()
	c.cfg.StrategyOrder = names
	return c
}

// YearWindow bounds the four-digit tokens accepted as calendar years
// during time-series classification.
func (e *Extraction) YearWindow(min, max int) *Extraction {
	c := e.clone()
	c.cfg.Classify.YearMin = min
	c.cfg.Classify.YearMax = max
	return c
}

// Logger sets the structured logger for the run.
func (e *Extraction) Logger(l *slog.Logger) *Extraction {
	c := e.clone()
	c.logger = l
	return c
}

// OCR attaches an OCR client and a directory of sidecar page scans,
// used to recover text from pages with no embedded text layer.
func (e *Extraction) OCR(client document.OCRClient, imageDir string) *Extraction {
	c := e.clone()
	c.ocr = client
	c.imageDir = imageDir
	return c
}

// Run executes the pipeline and returns the run log. The log is valid
// even when an error is returned; completed pages keep their entries.
func (e *Extraction) Run(ctx context.Context) (*model.RunLog, error) {
	opts := []run.Option{}
	if e.logger != nil {
		opts = append(opts, run.WithLogger(e.logger))
	}

	r, err := run.New(e.cfg, opts...)
	if err != nil {
		return nil, err
	}

	src, err := e.open(e.filename)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return r.ProcessDocument(ctx, src)
}

// Batch executes the pipeline over every path, attempting all of them
// regardless of individual failures.
func (e *Extraction) Batch(ctx context.Context, paths ...string) ([]run.DocumentResult, error) {
	opts := []run.Option{run.WithOpener(func(path string) (document.Source, error) {
		return e.open(path)
	})}
	if e.logger != nil {
		opts = append(opts, run.WithLogger(e.logger))
	}

	r, err := run.New(e.cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.ProcessBatch(ctx, paths)
}

func (e *Extraction) open(path string) (document.Source, error) {
	var docOpts []document.Option
	if e.ocr != nil {
		docOpts = append(docOpts, document.WithOCR(e.ocr))
	}
	if e.imageDir != "" {
		docOpts = append(docOpts, document.WithPageImageDir(e.imageDir))
	}
	return document.Open(path, docOpts...)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
