package document

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/histat/internal/imaging"
	"github.com/tsawler/histat/model"
)

// OCRClient recognizes text in a page scan. The ocr package provides an
// implementation backed by Tesseract when built with the "ocr" tag.
type OCRClient interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Source is the read-only document view consumed by the extraction run.
// *Reader is the production implementation; tests substitute fakes.
type Source interface {
	Document() model.SourceDocument
	PageCount() int
	Page(number int) (*Page, error)
	Close() error
}

// Option configures a Reader.
type Option func(*Reader)

// WithOCR attaches an OCR client used to recover text from scanned
// pages that carry no embedded text layer.
func WithOCR(c OCRClient) Option {
	return func(r *Reader) { r.ocr = c }
}

// WithPageImageDir points the reader at a directory of sidecar page
// scans (page-0001.tif and friends) produced by the digitization
// pipeline. Only consulted for pages with no embedded text.
func WithPageImageDir(dir string) Option {
	return func(r *Reader) { r.imageDir = dir }
}

// Reader provides scoped, read-only access to one source document. It
// holds the file handle for the duration of the run; Close releases it.
type Reader struct {
	file     *os.File
	pdf      *pdf.Reader
	doc      model.SourceDocument
	ocr      OCRClient
	imageDir string
}

var _ Source = (*Reader)(nil)

// Open opens a source document for extraction. It fails with a
// *DocumentError when the file is missing, zero-length, or not a valid
// document container.
func Open(path string, opts ...Option) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	if info.Size() == 0 {
		return nil, &DocumentError{Path: path, Err: ErrEmptyFile}
	}

	file, rd, err := openPDF(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}

	r := &Reader{
		file: file,
		pdf:  rd,
		doc: model.SourceDocument{
			ID:           model.DocumentID(path),
			Path:         path,
			SizeBytes:    info.Size(),
			PageCount:    rd.NumPage(),
			CreationDate: creationDate(rd),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// openPDF isolates the third-party parser behind a recover so that a
// malformed container surfaces as an error, not a crash.
func openPDF(path string) (file *os.File, rd *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			if file != nil {
				file.Close()
				file = nil
			}
			rd = nil
			err = fmt.Errorf("%w: %v", ErrNotDocument, p)
		}
	}()

	file, rd, err = pdf.Open(path)
	if err != nil {
		if file != nil {
			file.Close()
			file = nil
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}
	return file, rd, nil
}

// Document returns the immutable source document record.
func (r *Reader) Document() model.SourceDocument {
	return r.doc
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() int {
	return r.doc.PageCount
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Page loads the read-only view of one page. Malformed page content is
// tolerated: whatever the parser recovers is returned, down to an empty
// page. Only the document container itself failing is fatal, and that
// was already checked in Open.
func (r *Reader) Page(number int) (*Page, error) {
	if number < 1 || number > r.doc.PageCount {
		return nil, fmt.Errorf("page %d out of range 1-%d", number, r.doc.PageCount)
	}

	page := &Page{Number: number}

	p := r.pdf.Page(number)
	if p.V.IsNull() {
		return page, nil
	}

	page.Fragments, page.Rects = pageGeometry(p)
	page.PlainText = pagePlainText(p)

	if !page.HasText() && r.ocr != nil && r.imageDir != "" {
		if text, ok := r.scanText(number); ok {
			page.PlainText = text
			page.OCRApplied = true
		}
	}

	return page, nil
}

// pageGeometry pulls positioned text and drawn rectangles from the page
// content stream, shielding against parser panics on corrupt streams.
func pageGeometry(p pdf.Page) (frags []Fragment, rects []Rect) {
	defer func() {
		if recover() != nil {
			frags, rects = nil, nil
		}
	}()

	content := p.Content()
	frags = make([]Fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		frags = append(frags, Fragment{
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
			Text:     t.S,
		})
	}
	rects = make([]Rect, 0, len(content.Rect))
	for _, rc := range content.Rect {
		rects = append(rects, Rect{
			X0: rc.Min.X, Y0: rc.Min.Y,
			X1: rc.Max.X, Y1: rc.Max.Y,
		})
	}
	return frags, rects
}

// pagePlainText extracts the page's plain text, tolerating failures.
func pagePlainText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// scanExtensions lists sidecar scan file extensions in probe order.
var scanExtensions = []string{".tif", ".tiff", ".png", ".jpg", ".jpeg", ".g4", ".g3"}

// scanText looks for a sidecar page scan and recovers its text through
// OCR. Returns ok=false when no scan exists or the OCR path fails; the
// caller degrades to an empty page.
func (r *Reader) scanText(number int) (string, bool) {
	for _, ext := range scanExtensions {
		path := filepath.Join(r.imageDir, fmt.Sprintf("page-%04d%s", number, ext))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		png, err := imaging.ToPNG(data, ext)
		if err != nil {
			continue
		}

		text, err := r.ocr.RecognizeImage(png)
		if err != nil {
			return "", false
		}
		return text, text != ""
	}
	return "", false
}

// creationDate reads the document creation date from the Info
// dictionary, if present. Dates are stored as D:YYYYMMDDHHMMSS with
// optional timezone suffix; only the prefix is parsed.
func creationDate(rd *pdf.Reader) (ts time.Time) {
	defer func() {
		if recover() != nil {
			ts = time.Time{}
		}
	}()

	info := rd.Trailer().Key("Info")
	if info.IsNull() {
		return time.Time{}
	}
	raw := info.Key("CreationDate").RawString()
	if len(raw) < 2 {
		return time.Time{}
	}
	if raw[0] == 'D' && raw[1] == ':' {
		raw = raw[2:]
	}
	for _, layout := range []string{"20060102150405", "200601021504", "20060102"} {
		if len(raw) >= len(layout) {
			if t, err := time.Parse(layout, raw[:len(layout)]); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
