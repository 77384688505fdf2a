package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/histat/model"
)

func canonicalFixture() model.CanonicalTable {
	return model.CanonicalTable{
		Candidate: model.CandidateTable{
			ID:         "yearbook_1963-p012-lattice-0",
			Strategy:   "lattice",
			Confidence: 0.9,
			Page:       12,
			TableIndex: 0,
			Cells: [][]string{
				{"Indicator", "1958", "1959"},
				{"Income", "120.5", "131.2"},
			},
		},
		Assessment: model.QualityAssessment{Score: 0.88},
		PromotedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteTables(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	paths, err := w.WriteTables("yearbook_1963", []model.CanonicalTable{canonicalFixture()})
	if err != nil {
		t.Fatalf("WriteTables failed: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("Expected 1 path, got %d", len(paths))
	}

	want := filepath.Join(dir, "yearbook_1963_page12_table0.csv")
	if paths[0] != want {
		t.Errorf("Expected path %q, got %q", want, paths[0])
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Reading written CSV failed: %v", err)
	}
	wantCSV := "Indicator,1958,1959\nIncome,120.5,131.2\n"
	if string(data) != wantCSV {
		t.Errorf("Expected CSV %q, got %q", wantCSV, string(data))
	}
}

func TestWriteTablesPadsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	ct := canonicalFixture()
	ct.Candidate.Cells = [][]string{
		{"a", "b", "c"},
		{"d"},
	}

	paths, err := w.WriteTables("doc", []model.CanonicalTable{ct})
	if err != nil {
		t.Fatalf("WriteTables failed: %v", err)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("Reading written CSV failed: %v", err)
	}
	if string(data) != "a,b,c\nd,,\n" {
		t.Errorf("Expected padded CSV, got %q", string(data))
	}
}

func TestWriteRunLog(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	log := model.NewRunLog(model.SourceDocument{ID: "yearbook_1963", Path: "/in/yearbook 1963.pdf"},
		time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	log.PagesProcessed = 3
	log.AddDecision(model.SlotDecision{Page: 12, Slot: 0, Outcome: model.OutcomeNoCanonical})

	path, err := w.WriteRunLog(log)
	if err != nil {
		t.Fatalf("WriteRunLog failed: %v", err)
	}
	if want := filepath.Join(dir, "yearbook_1963_extraction.json"); path != want {
		t.Errorf("Expected path %q, got %q", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading written log failed: %v", err)
	}

	var decoded model.RunLog
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Written log is not valid JSON: %v", err)
	}
	if decoded.RunID != log.RunID {
		t.Errorf("Expected run ID %q, got %q", log.RunID, decoded.RunID)
	}
	if decoded.PagesProcessed != 3 {
		t.Errorf("Expected 3 pages processed, got %d", decoded.PagesProcessed)
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("Expected indented JSON output")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if _, err := w.WriteTables("doc", []model.CanonicalTable{canonicalFixture()}); err != nil {
		t.Fatalf("WriteTables failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestNewWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := NewWriter(dir); err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected output directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}
}
