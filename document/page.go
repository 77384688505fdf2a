package document

import "strings"

// Fragment is a positioned text run in PDF user-space coordinates
// (origin bottom-left, Y increasing upward).
type Fragment struct {
	X        float64
	Y        float64
	W        float64
	FontSize float64
	Text     string
}

// Rect is a drawn rectangle. Bordered government tables draw their
// ruling lines as thin filled rectangles; the lattice strategy
// reconstructs the grid from them.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Page is the read-only view of one source page handed to extraction
// strategies. It is a plain value: strategies never mutate it.
type Page struct {
	// Number is the 1-indexed page number.
	Number int

	// Fragments are the positioned text runs on the page.
	Fragments []Fragment

	// Rects are the drawn rectangles on the page.
	Rects []Rect

	// PlainText is the page text in reading order.
	PlainText string

	// OCRApplied reports that PlainText was recovered from a page scan
	// through OCR rather than from an embedded text layer.
	OCRApplied bool
}

// HasText reports whether the page carries any text at all.
func (p *Page) HasText() bool {
	return len(p.Fragments) > 0 || strings.TrimSpace(p.PlainText) != ""
}

// Lines splits the plain text into lines, dropping trailing empties.
func (p *Page) Lines() []string {
	if p.PlainText == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(p.PlainText, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
