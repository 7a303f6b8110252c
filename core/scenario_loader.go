package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lifelinesims/lifeline-simulator/model"
)

// LoadDisruptions reads the disruption scenario file: one CSV row per
// direct disruption with columns time_stamp, component_id,
// fail_percentage. A missing or malformed file is a ConfigurationError;
// the simulation cannot proceed without it.
func LoadDisruptions(path string) ([]model.DisruptionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := parseDisruptions(f)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return rows, nil
}

func parseDisruptions(r io.Reader) ([]model.DisruptionRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndexes(header, "time_stamp", "component_id", "fail_percentage")
	if err != nil {
		return nil, err
	}

	var rows []model.DisruptionRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := strconv.ParseInt(strings.TrimSpace(record[cols[0]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad time_stamp: %w", line, err)
		}
		componentID := strings.TrimSpace(record[cols[1]])
		if componentID == "" {
			return nil, fmt.Errorf("line %d: empty component_id", line)
		}
		failPct, err := strconv.Atoi(strings.TrimSpace(record[cols[2]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad fail_percentage: %w", line, err)
		}
		if failPct < 0 || failPct > 100 {
			return nil, fmt.Errorf("line %d: fail_percentage %d out of range [0,100]", line, failPct)
		}

		rows = append(rows, model.DisruptionRow{
			Time:        ts,
			ComponentID: componentID,
			FailPercent: failPct,
		})
	}
	return rows, nil
}

// LoadCouplingSpec reads the dependency specification file with columns
// water_id, power_id and returns (power_id, water_id) pairs — power is
// the coupling source. Row-level validation (unknown components,
// unrecognized patterns) happens later in GenerateDependencies, where
// bad rows are skipped with a warning.
func LoadCouplingSpec(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	defer f.Close()

	pairs, err := parseCouplingSpec(f)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return pairs, nil
}

func parseCouplingSpec(r io.Reader) ([][2]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndexes(header, "water_id", "power_id")
	if err != nil {
		return nil, err
	}

	var pairs [][2]string
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		waterID := strings.TrimSpace(record[cols[0]])
		powerID := strings.TrimSpace(record[cols[1]])
		if waterID == "" || powerID == "" {
			return nil, fmt.Errorf("line %d: empty component id", line)
		}
		pairs = append(pairs, [2]string{powerID, waterID})
	}
	return pairs, nil
}

// columnIndexes locates the named columns in a CSV header, matching
// case-insensitively so hand-edited files are tolerated.
func columnIndexes(header []string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		found := -1
		for j, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		out[i] = found
	}
	return out, nil
}
