package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"finreport/pkg/models"
)

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	bundle := &models.Bundle{
		SecurityID: "SEC123",
		Date:       "2024-01-15",
		Profile:    &models.CompanyProfile{SecurityID: "SEC123", Name: "Test Corp"},
		Report:     models.EmptyReport("SEC123", 2023),
	}

	path, err := w.Write(bundle)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "SEC123_2024-01-15.json" {
		t.Errorf("snapshot must be keyed by security and date, got %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot back failed: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if rec.RunID == "" {
		t.Error("expected a run id")
	}
	if rec.SecurityID != "SEC123" || rec.Date != "2024-01-15" {
		t.Errorf("snapshot key mismatch: %s %s", rec.SecurityID, rec.Date)
	}
	if rec.Bundle == nil || rec.Bundle.Profile.Name != "Test Corp" {
		t.Error("expected the raw bundle to round-trip")
	}
}

func TestWriteRerunReplacesSnapshot(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	bundle := &models.Bundle{SecurityID: "SEC123", Date: "2024-01-15"}

	p1, err := w.Write(bundle)
	if err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	data, err := os.ReadFile(p1)
	if err != nil {
		t.Fatalf("reading first snapshot failed: %v", err)
	}
	var first Record
	if err := json.Unmarshal(data, &first); err != nil {
		t.Fatalf("first snapshot is not valid JSON: %v", err)
	}

	p2, err := w.Write(bundle)
	if err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if p1 != p2 {
		t.Errorf("a rerun for the same key must target the same path, got %s and %s", p1, p2)
	}
	data, err = os.ReadFile(p2)
	if err != nil {
		t.Fatalf("reading second snapshot failed: %v", err)
	}
	var second Record
	if err := json.Unmarshal(data, &second); err != nil {
		t.Fatalf("second snapshot is not valid JSON: %v", err)
	}
	if second.RunID == "" || second.RunID == first.RunID {
		t.Error("expected the rerun to stamp a fresh run id in the record")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("listing snapshot dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single snapshot file per key, got %d", len(entries))
	}
}
