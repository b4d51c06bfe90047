// Package snapshot persists an end-of-run audit record of the raw acquired
// bundle. Snapshots capture source-level data only, never pipeline artifacts,
// so a run can be replayed or inspected against exactly what was fetched.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finreport/pkg/models"
)

// Record is the audit envelope written per run.
type Record struct {
	RunID      string         `json:"run_id"`
	SecurityID string         `json:"security_id"`
	Date       string         `json:"date"`
	WrittenAt  time.Time      `json:"written_at"`
	Bundle     *models.Bundle `json:"bundle"`
}

// Writer writes audit records under a base directory.
type Writer struct {
	dir string
}

// NewWriter creates a snapshot writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists the bundle as a JSON audit record keyed by security and
// date, and returns the path written. A rerun for the same key replaces the
// previous snapshot; the run id inside the record tells them apart.
func (w *Writer) Write(bundle *models.Bundle) (string, error) {
	rec := Record{
		RunID:      uuid.New().String(),
		SecurityID: bundle.SecurityID,
		Date:       bundle.Date,
		WrittenAt:  time.Now().UTC(),
		Bundle:     bundle,
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", bundle.SecurityID, bundle.Date)
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
