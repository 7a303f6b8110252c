package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// WriteResults writes the resilience series as a CSV with columns
// time_min, power_perf, water_perf into dir, creating the directory if
// absent. Each run gets a unique file name; the path is returned.
func WriteResults(dir string, samples []ResilienceSample) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("write results: no samples")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results_%s.csv", uuid.NewString()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time_min", "power_perf", "water_perf"}); err != nil {
		return "", fmt.Errorf("write results header: %w", err)
	}
	for _, s := range samples {
		rec := []string{
			strconv.FormatFloat(float64(s.Time)/60.0, 'f', 2, 64),
			strconv.FormatFloat(s.Power, 'f', 6, 64),
			strconv.FormatFloat(s.Water, 'f', 6, 64),
		}
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush results: %w", err)
	}
	return path, nil
}
