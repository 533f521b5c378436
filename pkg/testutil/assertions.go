package testutil

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// AssertRecordCount verifies the number of records.
func AssertRecordCount(t *testing.T, records []model.Record, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertNoDuplicateIDs verifies all record ids are unique.
func AssertNoDuplicateIDs(t *testing.T, records []model.Record) {
	t.Helper()
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			t.Errorf("duplicate record id: %s", r.ID)
		}
		seen[r.ID] = true
	}
}

// AssertAllFinite verifies every metric of every record is a finite number.
func AssertAllFinite(t *testing.T, records []model.Record) {
	t.Helper()
	for _, r := range records {
		for _, c := range model.Columns() {
			v := r.Value(c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("record %s: %s = %v is not finite", r.ID, c, v)
			}
		}
	}
}

// TB is the subset of testing.TB also implemented by *rapid.T, so helpers
// can run inside property checks.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// AssertOneActivePerAxis verifies the scene marks exactly one selector
// active on each axis.
func AssertOneActivePerAxis(t TB, scene chart.Scene) {
	t.Helper()
	for _, axis := range []model.Axis{model.AxisX, model.AxisY} {
		if n := scene.ActiveCount(axis); n != 1 {
			t.Errorf("expected exactly one active %s selector, got %d", axis, n)
		}
	}
}

// AssertContainsAll verifies s contains every substring.
func AssertContainsAll(t *testing.T, s string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			t.Errorf("output missing %q", sub)
		}
	}
}

// WriteDataFile writes records as CSV to dir/name and returns the path.
func WriteDataFile(t *testing.T, dir, name string, records []model.Record) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToCSV(records)), 0o644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	return path
}

// GoldenFile compares output against a stored file. Setting
// GENERATE_GOLDEN rewrites the file instead.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{t: t, dir: dir, name: name, update: os.Getenv("GENERATE_GOLDEN") != ""}
}

// Path returns the golden file location.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual against the golden file, reporting the first
// differing line.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()
	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Skipf("golden file %s missing; run with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}
	want := strings.Split(string(expected), "\n")
	got := strings.Split(actual, "\n")
	for i := 0; i < len(want) || i < len(got); i++ {
		var w, a string
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			a = got[i]
		}
		if w != a {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, w, a)
			return
		}
	}
}
