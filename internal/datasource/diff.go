package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// RecordDiff describes how a dataset changed between two loads.
type RecordDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	// Changed lists ids whose name or any metric differs.
	Changed []string `json:"changed,omitempty"`
}

// HasChanges reports whether anything differs.
func (d RecordDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// Summary returns a short human-readable description, e.g.
// "1 added (NV), 2 changed".
func (d RecordDiff) Summary() string {
	if !d.HasChanges() {
		return "no changes"
	}
	var parts []string
	part := func(n int, verb string, ids []string) {
		if n == 0 {
			return
		}
		s := fmt.Sprintf("%d %s", n, verb)
		if n <= 3 {
			s += " (" + strings.Join(ids, ", ") + ")"
		}
		parts = append(parts, s)
	}
	part(len(d.Added), "added", d.Added)
	part(len(d.Removed), "removed", d.Removed)
	part(len(d.Changed), "changed", d.Changed)
	return strings.Join(parts, ", ")
}

// DiffRecords compares two record sets by id. Result slices are sorted.
func DiffRecords(before, after []model.Record) RecordDiff {
	old := make(map[string]model.Record, len(before))
	for _, r := range before {
		old[r.ID] = r
	}

	var diff RecordDiff
	seen := make(map[string]bool, len(after))
	for _, r := range after {
		seen[r.ID] = true
		prev, ok := old[r.ID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, r.ID)
		case prev != r:
			diff.Changed = append(diff.Changed, r.ID)
		}
	}
	for _, r := range before {
		if !seen[r.ID] {
			diff.Removed = append(diff.Removed, r.ID)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	return diff
}
