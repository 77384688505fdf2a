package strategies

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/histat/document"
	"github.com/tsawler/histat/model"
)

// Strategy is the single capability all extraction strategies share:
// turn one page into zero or more candidate tables. Implementations
// must be stateless between calls so a strategy instance can serve
// concurrent page ranges.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Extract produces candidate tables for a page. An empty result is
	// normal; an error is recovered by the caller and treated as zero
	// candidates for this (strategy, page) pair.
	Extract(page *document.Page) ([]model.CandidateTable, error)
}

// Strategy identifiers.
const (
	NameLattice   = "lattice"
	NameStream    = "stream"
	NameTextBlock = "textblock"
)

// DefaultOrder is the fixed strategy order. Higher-precision strategies
// are listed first; promotion uses this order to break score ties.
var DefaultOrder = []string{NameLattice, NameStream, NameTextBlock}

// Config holds strategy configuration.
type Config struct {
	// Minimum rows for a grid to count as a table.
	MinRows int

	// Minimum columns for a grid to count as a table.
	MinCols int

	// Tolerance for clustering fragment rows and grid positions (points).
	AlignmentTolerance float64

	// Tolerance for treating nearby rect edges as the same ruling line
	// (points).
	SnapTolerance float64

	// Vertical gap that splits content into separate tables (points).
	MaxRowGap float64

	// Minimum fraction of rows a column boundary must appear in for
	// the stream strategy to accept it.
	MinColumnHits float64
}

// DefaultConfig returns the default strategy configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		AlignmentTolerance: 3.0,
		SnapTolerance:      3.0,
		MaxRowGap:          50.0,
		MinColumnHits:      0.5,
	}
}

// Factory builds a configured strategy instance. Each run constructs
// its own instances; nothing is shared between concurrent runs.
type Factory func(Config) Strategy

var factories = map[string]Factory{}

// RegisterFactory registers a strategy factory under its name.
// Registering an already-known name replaces the factory.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New builds a configured strategy by name.
func New(name string, cfg Config) (Strategy, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return f(cfg), nil
}

// Default builds the three standard strategies in the fixed order.
func Default(cfg Config) []Strategy {
	ss, err := ForOrder(DefaultOrder, cfg)
	if err != nil {
		// The standard factories are registered in init; this cannot
		// fail unless a caller unregistered them.
		panic(err)
	}
	return ss
}

// ForOrder builds configured strategies in the caller-supplied order.
func ForOrder(order []string, cfg Config) ([]Strategy, error) {
	ss := make([]Strategy, 0, len(order))
	for _, name := range order {
		s, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
	}
	return ss, nil
}

// Rank returns the position of a strategy name in the given order, or
// len(order) for unknown names, so unknown strategies sort last.
func Rank(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return len(order)
}

func init() {
	RegisterFactory(NameLattice, func(cfg Config) Strategy { return &Lattice{cfg: cfg} })
	RegisterFactory(NameStream, func(cfg Config) Strategy { return &Stream{cfg: cfg} })
	RegisterFactory(NameTextBlock, func(cfg Config) Strategy { return &TextBlock{cfg: cfg} })
}

// clusterValues clusters nearby sorted values within the given
// tolerance, averaging values that fall within the tolerance of the
// cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}
	return clustered
}

// coefficientOfVariation calculates CV (std dev / mean).
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))
	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}

// sortFragments orders fragments top-to-bottom, then left-to-right.
// PDF user space has Y increasing upward, so top-to-bottom is Y
// descending.
func sortFragments(frags []document.Fragment) []document.Fragment {
	sorted := make([]document.Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// joinFragments assembles cell text from positioned fragments. The PDF
// parser yields one fragment per glyph run, frequently a single
// character, so adjacent runs are concatenated directly and a space is
// inserted only where the horizontal gap indicates a word break.
func joinFragments(frags []document.Fragment) string {
	if len(frags) == 0 {
		return ""
	}
	sorted := sortFragments(frags)

	var b strings.Builder
	prev := sorted[0]
	b.WriteString(prev.Text)
	for _, f := range sorted[1:] {
		switch {
		case prev.Y-f.Y > 2.0:
			b.WriteByte(' ')
		case f.X-(prev.X+prev.W) > wordGap(prev.FontSize):
			b.WriteByte(' ')
		}
		b.WriteString(f.Text)
		prev = f
	}
	return strings.TrimSpace(b.String())
}

// wordGap returns the horizontal gap that separates words at a given
// font size.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.5
	}
	return fontSize * 0.25
}
