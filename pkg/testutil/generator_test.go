package testutil

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/healthscatter/pkg/loader"
)

func TestRecordsDeterministic(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7}).Records(10)
	b := New(GeneratorConfig{Seed: 7}).Records(10)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
	AssertRecordCount(t, a, 10)
	AssertNoDuplicateIDs(t, a)
	AssertAllFinite(t, a)
	if a[0].ID != "AL" {
		t.Errorf("expected state code ids, got %s", a[0].ID)
	}
}

func TestRecordsBeyondStateCodes(t *testing.T) {
	records := QuickRecords(len(StateCodes) + 5)
	AssertNoDuplicateIDs(t, records)
	if last := records[len(records)-1].ID; !strings.HasPrefix(last, "S") {
		t.Errorf("expected generated id for overflow records, got %s", last)
	}
}

func TestToCSVRoundTrip(t *testing.T) {
	records := QuickRecords(5)
	parsed, err := loader.ParseRecords(strings.NewReader(ToCSV(records)))
	if err != nil {
		t.Fatalf("generated CSV did not parse: %v", err)
	}
	AssertRecordCount(t, parsed, len(records))
	for i := range records {
		if parsed[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, parsed[i], records[i])
		}
	}
}

func TestToCSVQuotesNames(t *testing.T) {
	records := TwoStates()
	records[0].Name = "Washington, D.C."
	records[1].Name = `The "Lone Star" State`

	parsed, err := loader.ParseRecords(strings.NewReader(ToCSV(records)))
	if err != nil {
		t.Fatalf("generated CSV did not parse: %v", err)
	}
	AssertRecordCount(t, parsed, 2)
	for i := range records {
		if parsed[i].Name != records[i].Name || parsed[i].Income != records[i].Income {
			t.Errorf("record %d: got %+v, want %+v", i, parsed[i], records[i])
		}
	}
}
