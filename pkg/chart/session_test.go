package chart_test

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
	"github.com/vanderheijden86/healthscatter/pkg/testutil"
)

var allTags = []string{"poverty", "age", "income", "obesity", "smokes", "healthcare"}

func newSession(t testutil.TB, records []model.Record) *chart.Session {
	t.Helper()
	s, err := chart.NewSession(records, chart.DefaultOptions())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	s := newSession(t, testutil.TwoStates())

	if s.ActiveX() != model.ColumnPoverty || s.ActiveY() != model.ColumnHealthcare {
		t.Errorf("defaults = %v/%v", s.ActiveX(), s.ActiveY())
	}
	if s.ScaleBuilds() != 2 {
		t.Errorf("expected 2 scale builds at start, got %d", s.ScaleBuilds())
	}
	if d := s.Scale(model.AxisX).Domain; d != [2]float64{9, 22} {
		t.Errorf("x domain = %v, want [9 22]", d)
	}
	testutil.AssertOneActivePerAxis(t, s.Scene())
	if s.Tooltip() != chart.BindTooltip(model.ColumnPoverty, model.ColumnHealthcare) {
		t.Error("tooltip not bound to the default columns")
	}
}

func TestNewSession_Errors(t *testing.T) {
	if _, err := chart.NewSession(nil, chart.DefaultOptions()); !errors.Is(err, chart.ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	opts := chart.DefaultOptions()
	opts.DefaultX = model.ColumnSmokes
	if _, err := chart.NewSession(testutil.TwoStates(), opts); err == nil {
		t.Error("expected error for y column as default x")
	}
}

func TestClick_ChangesOnlyClickedAxis(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	before := s.Scene()

	tr, err := s.Click("age")
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Changed || tr.Axis != model.AxisX || tr.Duration != time.Second {
		t.Errorf("unexpected transition %+v", tr)
	}
	if s.ActiveX() != model.ColumnAge || s.ActiveY() != model.ColumnHealthcare {
		t.Errorf("active = %v/%v", s.ActiveX(), s.ActiveY())
	}
	if s.ScaleBuilds() != 3 {
		t.Errorf("clicking x should build exactly one scale, total %d", s.ScaleBuilds())
	}

	after := s.Scene()
	if after.YAxis.Scale != before.YAxis.Scale {
		t.Error("y scale changed on an x click")
	}
	if after.XAxis.Scale.Column != model.ColumnAge {
		t.Errorf("x axis column = %v", after.XAxis.Scale.Column)
	}
	for i := range after.Markers {
		if after.Markers[i].Y != before.Markers[i].Y {
			t.Errorf("marker %s moved vertically", after.Markers[i].ID)
		}
		if after.Markers[i].X == before.Markers[i].X {
			t.Errorf("marker %s did not move horizontally", after.Markers[i].ID)
		}
	}
	if tr.From.XAxis.Scale != before.XAxis.Scale || tr.To.XAxis.Scale != after.XAxis.Scale {
		t.Error("transition endpoints do not match the scenes")
	}

	html, err := s.TooltipHTML("CA")
	if err != nil {
		t.Fatal(err)
	}
	if html != "California<hr>Age: 36<br>Lacks Healthcare: 12.1%" {
		t.Errorf("tooltip after rebind = %q", html)
	}
}

func TestClick_YAxis(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	tr, err := s.Click("smokes")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Axis != model.AxisY || s.ActiveY() != model.ColumnSmokes || s.ActiveX() != model.ColumnPoverty {
		t.Errorf("unexpected state after y click: %+v", tr)
	}
	sel := map[string]bool{}
	for _, l := range s.Scene().Selectors {
		sel[l.Tag] = l.Active
	}
	if !sel["smokes"] || sel["healthcare"] || sel["obesity"] || !sel["poverty"] {
		t.Errorf("selector styling wrong: %v", sel)
	}
}

func TestClick_ActiveColumnIsNoop(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	before := s.Scene()

	tr, err := s.Click("poverty")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Changed {
		t.Error("re-clicking the active column should not change anything")
	}
	if s.ScaleBuilds() != 2 {
		t.Errorf("no scale should be built, total %d", s.ScaleBuilds())
	}
	if s.Scene().XAxis.Scale != before.XAxis.Scale {
		t.Error("scene changed on a no-op click")
	}
}

func TestClick_UnknownTag(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	_, err := s.Click("wealth")
	if !errors.Is(err, model.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
	if s.ActiveX() != model.ColumnPoverty || s.ActiveY() != model.ColumnHealthcare || s.ScaleBuilds() != 2 {
		t.Error("state changed after an unknown tag")
	}

	if _, err := s.Click(" Income "); err != nil {
		t.Errorf("tags should be matched case-insensitively: %v", err)
	}
}

func TestReload(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	if _, err := s.Click("income"); err != nil {
		t.Fatal(err)
	}
	records := testutil.QuickRecords(10)
	tr, err := s.Reload(records)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Reload || !tr.Changed {
		t.Errorf("unexpected reload transition %+v", tr)
	}
	if s.ActiveX() != model.ColumnIncome {
		t.Error("reload should keep the active columns")
	}
	if len(s.Scene().Markers) != 10 {
		t.Errorf("expected 10 markers, got %d", len(s.Scene().Markers))
	}
	if _, ok := s.Record("AL"); !ok {
		t.Error("new records should be indexed")
	}
	// QuickRecords(10) runs AL..FL, so TX only exists in the old dataset.
	if _, ok := s.Record("TX"); ok {
		t.Error("old record TX should be gone")
	}

	if _, err := s.Reload(nil); !errors.Is(err, chart.ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	if len(s.Records()) != 10 {
		t.Error("failed reload should keep the previous dataset")
	}
}

func TestHitTest(t *testing.T) {
	s := newSession(t, testutil.TwoStates())
	m, _ := s.Scene().Marker("TX")
	r, ok := s.HitTest(m.X+3, m.Y-3)
	if !ok || r.ID != "TX" {
		t.Errorf("HitTest near TX = %+v, %v", r, ok)
	}
	if _, ok := s.HitTest(-500, -500); ok {
		t.Error("expected no hit outside the plot")
	}
	if _, err := s.TooltipHTML("ZZ"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestClickSequence_Properties(t *testing.T) {
	records := testutil.QuickRecords(12)
	rapid.Check(t, func(rt *rapid.T) {
		s := newSession(rt, records)
		clicks := rapid.SliceOfN(rapid.SampledFrom(allTags), 1, 20).Draw(rt, "clicks")

		for _, tag := range clicks {
			wantAxis := model.AxisY
			col, _ := model.ParseColumn(tag)
			if col.Axis() == model.AxisX {
				wantAxis = model.AxisX
			}
			wasActive := s.Active(wantAxis) == col
			buildsBefore := s.ScaleBuilds()
			other := s.Scale(wantAxis.Other())

			tr, err := s.Click(tag)
			if err != nil {
				rt.Fatalf("Click(%q): %v", tag, err)
			}
			testutil.AssertOneActivePerAxis(rt, s.Scene())

			if s.Active(wantAxis) != col {
				rt.Fatalf("after Click(%q) active %s = %v", tag, wantAxis, s.Active(wantAxis))
			}
			if s.Scale(wantAxis.Other()) != other {
				rt.Fatalf("Click(%q) changed the %s scale", tag, wantAxis.Other())
			}
			if wasActive {
				if tr.Changed || s.ScaleBuilds() != buildsBefore {
					rt.Fatalf("re-click of %q rebuilt state", tag)
				}
			} else if s.ScaleBuilds() != buildsBefore+1 {
				rt.Fatalf("Click(%q) built %d scales", tag, s.ScaleBuilds()-buildsBefore)
			}
		}
	})
}

func TestClick_Idempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newSession(rt, testutil.QuickRecords(8))
		tag := rapid.SampledFrom(allTags).Draw(rt, "tag")

		if _, err := s.Click(tag); err != nil {
			rt.Fatal(err)
		}
		once := s.Scene()
		builds := s.ScaleBuilds()

		tr, err := s.Click(tag)
		if err != nil {
			rt.Fatal(err)
		}
		if tr.Changed || s.ScaleBuilds() != builds {
			rt.Fatalf("second Click(%q) was not a no-op", tag)
		}
		if s.Scene().XAxis.Scale != once.XAxis.Scale || s.Scene().YAxis.Scale != once.YAxis.Scale {
			rt.Fatalf("second Click(%q) changed the scene", tag)
		}
	})
}
