package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// latestFileName is rewritten on every pass so consumers always have a
// stable path to the most recent snapshot.
const latestFileName = "latest.json"

// SnapshotWriter persists status snapshots as pretty-printed JSON side
// files: one timestamped file per pass plus an overwritten latest file.
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter creates a writer targeting the given directory.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

// Write stores the snapshot and returns the timestamped file's path.
func (w *SnapshotWriter) Write(snap domain.OutageStatusSnapshot) (string, error) {
	name := fmt.Sprintf("luma_outages_%s.json", domain.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	if err := writeJSONFile(path, snap); err != nil {
		return "", err
	}
	if err := writeJSONFile(filepath.Join(w.dir, latestFileName), snap); err != nil {
		return "", err
	}
	return path, nil
}

// writeJSONFile encodes v as indented UTF-8 JSON. HTML escaping is off so
// non-ASCII text (municipality names carry accents) is preserved as-is.
func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
