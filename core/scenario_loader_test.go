package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDisruptions(t *testing.T) {
	path := writeTempFile(t, "disruptions.csv",
		"time_stamp,component_id,fail_percentage\n"+
			"0,P_MP1,50\n"+
			"3600,W_PMA4,80\n")

	rows, err := LoadDisruptions(path)
	if err != nil {
		t.Fatalf("LoadDisruptions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ComponentID != "P_MP1" || rows[0].Time != 0 || rows[0].FailPercent != 50 {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].ComponentID != "W_PMA4" || rows[1].Time != 3600 || rows[1].FailPercent != 80 {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
}

func TestLoadDisruptionsMissingFile(t *testing.T) {
	_, err := LoadDisruptions(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error %v is not a ConfigurationError", err)
	}
	if !strings.Contains(cfgErr.Error(), "nope.csv") {
		t.Fatalf("error %q does not name the missing path", cfgErr.Error())
	}
}

func TestLoadDisruptionsRejectsMalformedRows(t *testing.T) {
	cases := map[string]string{
		"bad timestamp":   "time_stamp,component_id,fail_percentage\nxx,P_MP1,50\n",
		"bad percentage":  "time_stamp,component_id,fail_percentage\n0,P_MP1,150\n",
		"empty component": "time_stamp,component_id,fail_percentage\n0,,50\n",
		"missing column":  "time_stamp,component_id\n0,P_MP1\n",
	}
	for name, contents := range cases {
		path := writeTempFile(t, "bad.csv", contents)
		if _, err := LoadDisruptions(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCouplingSpec(t *testing.T) {
	path := writeTempFile(t, "deps.csv",
		"water_id,power_id\n"+
			"W_WP1,P_MP1\n"+
			"W_R1,P_G1\n")

	pairs, err := LoadCouplingSpec(path)
	if err != nil {
		t.Fatalf("LoadCouplingSpec: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	// Pairs come back (power_id, water_id): power is the source.
	if pairs[0] != [2]string{"P_MP1", "W_WP1"} {
		t.Fatalf("pairs[0] = %v", pairs[0])
	}
}

func TestLoadCouplingSpecColumnOrderTolerant(t *testing.T) {
	path := writeTempFile(t, "deps.csv",
		"power_id,water_id\n"+
			"P_MP1,W_WP1\n")

	pairs, err := LoadCouplingSpec(path)
	if err != nil {
		t.Fatalf("LoadCouplingSpec: %v", err)
	}
	if pairs[0] != [2]string{"P_MP1", "W_WP1"} {
		t.Fatalf("pairs[0] = %v", pairs[0])
	}
}
