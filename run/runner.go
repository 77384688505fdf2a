package run

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/histat/classify"
	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
	"github.com/tsawler/histat/output"
	"github.com/tsawler/histat/promote"
	"github.com/tsawler/histat/quality"
	"github.com/tsawler/histat/strategies"
)

// Config holds the runner configuration. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Strategies configures the extraction strategies.
	Strategies strategies.Config

	// StrategyOrder is the fixed strategy order.
	StrategyOrder []string

	// Classify configures time-series detection.
	Classify classify.Config

	// Quality configures quality scoring.
	Quality quality.Config

	// PromotionThreshold is the minimum composite score for promotion.
	PromotionThreshold float64

	// PageChunkSize bounds the pages handed to one worker at a time.
	PageChunkSize int

	// Workers caps concurrent page chunks. Zero means GOMAXPROCS.
	Workers int

	// OutputDir receives the CSV and run-log files. Empty disables
	// writing; the run log is still returned.
	OutputDir string
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	return Config{
		Strategies:         strategies.DefaultConfig(),
		StrategyOrder:      strategies.DefaultOrder,
		Classify:           classify.DefaultConfig(),
		Quality:            quality.DefaultConfig(),
		PromotionThreshold: 0.8,
		PageChunkSize:      50,
		OutputDir:          "output",
	}
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger. The default discards nothing
// and writes to the process default handler.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithOpener overrides how batch processing opens document paths, for
// tests.
func WithOpener(open func(path string) (document.Source, error)) Option {
	return func(r *Runner) { r.open = open }
}

// Runner executes the extraction pipeline. A Runner is safe for use by
// a single goroutine; create one per batch.
type Runner struct {
	cfg    Config
	ss     []strategies.Strategy
	writer *output.Writer
	logger *slog.Logger
	now    func() time.Time
	open   func(path string) (document.Source, error)
}

// New creates a runner from the configuration.
func New(cfg Config, opts ...Option) (*Runner, error) {
	ss, err := strategies.ForOrder(cfg.StrategyOrder, cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("configuring strategies: %w", err)
	}

	r := &Runner{
		cfg:    cfg,
		ss:     ss,
		logger: slog.Default(),
		now:    time.Now,
		open: func(path string) (document.Source, error) {
			return document.Open(path)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	if cfg.OutputDir != "" {
		w, err := output.NewWriter(cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		r.writer = w
	}
	return r, nil
}

// chunkResult carries one page chunk's output back for in-order
// reassembly.
type chunkResult struct {
	pages      int
	candidates []promote.Scored
	failures   []model.StrategyFailure
}

// ProcessDocument runs the full pipeline over one open document and
// returns its run log. The log is valid even on error: chunks completed
// before a cancellation keep their entries.
func (r *Runner) ProcessDocument(ctx context.Context, src document.Source) (*model.RunLog, error) {
	doc := src.Document()
	log := model.NewRunLog(doc, r.now())

	chunks := model.Partition(src.PageCount(), r.cfg.PageChunkSize)
	r.logger.Info("processing document",
		"document", doc.ID,
		"pages", src.PageCount(),
		"chunks", len(chunks),
		"run_id", log.RunID)

	results := make([]chunkResult, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, pr := range chunks {
		i, pr := i, pr
		g.Go(func() error {
			res, err := r.processChunk(ctx, src, pr)
			results[i] = res
			return err
		})
	}
	runErr := g.Wait()

	// Reassemble in chunk order so concurrency never reorders the log.
	var all []promote.Scored
	for _, res := range results {
		log.PagesProcessed += res.pages
		for _, f := range res.failures {
			log.AddFailure(f)
		}
		all = append(all, res.candidates...)
	}

	canonical, decisions := promote.Promote(all, promote.Config{
		Threshold:     r.cfg.PromotionThreshold,
		MinOverlap:    promote.DefaultConfig().MinOverlap,
		StrategyOrder: r.cfg.StrategyOrder,
	}, r.now())

	promoted := map[string]bool{}
	for _, d := range decisions {
		log.AddDecision(d)
		if d.WinnerID != "" {
			promoted[d.WinnerID] = true
		}
	}
	for _, s := range all {
		rec := model.CandidateRecord{
			Candidate:  s.Candidate,
			Assessment: s.Assessment,
			Structure:  s.Structure,
			Outcome:    model.CandidateRetained,
		}
		if promoted[s.Candidate.ID] {
			rec.Promoted = true
			rec.Outcome = model.CandidatePromoted
		}
		log.AddCandidate(rec)
	}

	if runErr != nil {
		r.logger.Warn("document run interrupted",
			"document", doc.ID,
			"pages_processed", log.PagesProcessed,
			"error", runErr)
		return log, runErr
	}

	if r.writer != nil {
		if _, err := r.writer.WriteTables(doc.ID, canonical); err != nil {
			return log, err
		}
		if _, err := r.writer.WriteRunLog(log); err != nil {
			return log, err
		}
	}

	s := log.Summary()
	r.logger.Info("document complete",
		"document", doc.ID,
		"candidates", s.CandidatesProduced,
		"promoted", s.CandidatesPromoted,
		"strategy_errors", s.StrategyErrors)
	return log, nil
}

// processChunk runs every strategy over every page in the range.
// Cancellation is checked between pages, never mid-page.
func (r *Runner) processChunk(ctx context.Context, src document.Source, pr model.PageRange) (chunkResult, error) {
	var res chunkResult
	docID := src.Document().ID

	for n := pr.Start; n <= pr.End; n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := src.Page(n)
		if err != nil {
			// An unreadable page degrades like a failed strategy: it
			// contributes nothing and the run continues.
			res.failures = append(res.failures, model.StrategyFailure{
				Page: n, Strategy: "page", Message: err.Error(),
			})
			res.pages++
			continue
		}

		for _, s := range r.ss {
			candidates, err := extractPage(s, page)
			if err != nil {
				r.logger.Debug("strategy failed",
					"document", docID, "page", n, "strategy", s.Name(), "error", err)
				res.failures = append(res.failures, model.StrategyFailure{
					Page: n, Strategy: s.Name(), Message: err.Error(),
				})
				continue
			}
			for _, c := range candidates {
				res.candidates = append(res.candidates, r.score(finalize(docID, c)))
			}
		}
		res.pages++
	}
	return res, nil
}

// extractPage invokes one strategy on one page, converting panics into
// errors so a misbehaving strategy costs only its own candidates.
func extractPage(s strategies.Strategy, page *document.Page) (candidates []model.CandidateTable, err error) {
	defer func() {
		if p := recover(); p != nil {
			candidates = nil
			err = fmt.Errorf("strategy panic: %v", p)
		}
	}()
	return s.Extract(page)
}

// finalize assigns the deterministic candidate ID and normalizes the
// cell text.
func finalize(docID string, c model.CandidateTable) model.CandidateTable {
	c.ID = model.CandidateID(docID, c.Page, c.Strategy, c.TableIndex)
	cells := make([][]string, len(c.Cells))
	for i, row := range c.Cells {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			cells[i][j] = model.NormalizeCell(cell)
		}
	}
	c.Cells = cells
	return c
}

// score attaches the derived classification and quality records.
func (r *Runner) score(c model.CandidateTable) promote.Scored {
	st := classify.Classify(c, r.cfg.Classify)
	return promote.Scored{
		Candidate:  c,
		Structure:  st,
		Assessment: quality.Assess(c, st, r.cfg.Quality),
	}
}

func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}
