package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest is written next to batch outputs.
type Manifest struct {
	Tool      string    `json:"tool"`
	Generated time.Time `json:"generated"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Results   []Result  `json:"results"`
}

// WriteManifest writes manifest.json-style output to path.
func WriteManifest(path, tool string, results []Result) error {
	failed := len(Failed(results))
	m := Manifest{
		Tool:      tool,
		Generated: time.Now().UTC(),
		Succeeded: len(results) - failed,
		Failed:    failed,
		Results:   results,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
