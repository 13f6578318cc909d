package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"starling/internal/model"
)

// WriteBadRecords rewrites the quarantine artifact at path, one JSON
// object per line. The file is truncated each run; quarantine output is
// not appended across runs.
func WriteBadRecords(path string, bad []model.BadRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create quarantine directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create quarantine file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, record := range bad {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to write quarantine record: %w", err)
		}
	}
	return f.Sync()
}
