package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tsawler/histat/model"
)

// Writer writes canonical tables and run logs into one output
// directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating the directory if
// needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// TablePath returns the CSV path a canonical table is written to.
func (w *Writer) TablePath(docID string, t model.CanonicalTable) string {
	name := fmt.Sprintf("%s_page%d_table%d.csv", docID, t.Candidate.Page, t.Candidate.TableIndex)
	return filepath.Join(w.dir, name)
}

// LogPath returns the JSON path a document's run log is written to.
func (w *Writer) LogPath(docID string) string {
	return filepath.Join(w.dir, docID+"_extraction.json")
}

// WriteTables writes one CSV per canonical table and returns the
// written paths in input order.
func (w *Writer) WriteTables(docID string, tables []model.CanonicalTable) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := w.TablePath(docID, t)
		if err := w.writeAtomic(path, func(f io.Writer) error {
			return writeCSV(f, t.Candidate)
		}); err != nil {
			return paths, fmt.Errorf("writing table %s: %w", t.Candidate.ID, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteRunLog writes the document's run log as indented JSON and
// returns the written path.
func (w *Writer) WriteRunLog(log *model.RunLog) (string, error) {
	path := w.LogPath(log.Document.ID)
	err := w.writeAtomic(path, func(f io.Writer) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(log)
	})
	if err != nil {
		return "", fmt.Errorf("writing run log for %s: %w", log.Document.ID, err)
	}
	return path, nil
}

// writeAtomic writes through a synced temp file in the destination
// directory and renames it into place.
func (w *Writer) writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(w.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// writeCSV writes the cell grid, padding ragged rows so every record
// has the same number of fields.
func writeCSV(f io.Writer, c model.CandidateTable) error {
	cols := c.ColCount()
	cw := csv.NewWriter(f)
	for _, row := range c.Cells {
		record := make([]string, cols)
		copy(record, row)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
