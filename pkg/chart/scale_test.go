package chart

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildScale_DomainPadding(t *testing.T) {
	records := []model.Record{{ID: "A", Poverty: 10}, {ID: "B", Poverty: 20}}
	sc, err := BuildScale(records, model.ColumnPoverty, [2]float64{0, 820})
	if err != nil {
		t.Fatal(err)
	}
	if !approx(sc.Domain[0], 9) || !approx(sc.Domain[1], 22) {
		t.Errorf("domain = %v, want [9 22]", sc.Domain)
	}
	if sc.Column != model.ColumnPoverty {
		t.Errorf("column = %v", sc.Column)
	}
}

func TestBuildScale_Empty(t *testing.T) {
	if _, err := BuildScale(nil, model.ColumnAge, [2]float64{0, 1}); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

func TestScaleApply(t *testing.T) {
	sc := Scale{Column: model.ColumnPoverty, Domain: [2]float64{9, 22}, Range: [2]float64{0, 820}}
	tests := []struct {
		v, want float64
	}{
		{9, 0},
		{22, 820},
		{15.5, 410},
		{35, 820 + 13.0/13*820}, // extrapolates, no clamping
		{-4, -820},
	}
	for _, tt := range tests {
		if got := sc.Apply(tt.v); !approx(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.v, got, tt.want)
		}
		if back := sc.Invert(sc.Apply(tt.v)); !approx(back, tt.v) {
			t.Errorf("Invert(Apply(%v)) = %v", tt.v, back)
		}
	}
}

func TestScaleApply_DescendingRange(t *testing.T) {
	sc := Scale{Domain: [2]float64{0, 10}, Range: [2]float64{420, 0}}
	if got := sc.Apply(0); got != 420 {
		t.Errorf("Apply(min) = %v, want 420 (bottom)", got)
	}
	if got := sc.Apply(10); got != 0 {
		t.Errorf("Apply(max) = %v, want 0 (top)", got)
	}
}

func TestScaleApply_Degenerate(t *testing.T) {
	records := []model.Record{{ID: "A"}, {ID: "B"}}
	sc, err := BuildScale(records, model.ColumnSmokes, [2]float64{420, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !sc.Degenerate() {
		t.Fatalf("expected degenerate domain, got %v", sc.Domain)
	}
	for _, v := range []float64{0, 5, -3} {
		if got := sc.Apply(v); got != 210 {
			t.Errorf("Apply(%v) = %v, want midpoint 210", v, got)
		}
	}
	ticks := sc.Ticks()
	if len(ticks) != 1 || ticks[0].Label != "0%" {
		t.Errorf("unexpected degenerate ticks %+v", ticks)
	}
}

func TestScaleTicks(t *testing.T) {
	sc := Scale{Column: model.ColumnPoverty, Domain: [2]float64{9, 22}, Range: [2]float64{0, 820}}
	ticks := sc.Ticks()
	if len(ticks) == 0 {
		t.Fatal("expected ticks")
	}
	majors := 0
	prev := math.Inf(-1)
	for _, tk := range ticks {
		if tk.Value < 9 || tk.Value > 22 {
			t.Errorf("tick %v outside domain", tk.Value)
		}
		if tk.Value < prev {
			t.Errorf("ticks not ascending at %v", tk.Value)
		}
		prev = tk.Value
		if !approx(tk.Pos, sc.Apply(tk.Value)) {
			t.Errorf("tick %v at %v, want %v", tk.Value, tk.Pos, sc.Apply(tk.Value))
		}
		if tk.Major {
			majors++
			if !strings.HasSuffix(tk.Label, "%") {
				t.Errorf("poverty tick label %q should be a percentage", tk.Label)
			}
		} else if tk.Label != "" {
			t.Errorf("minor tick %v has label %q", tk.Value, tk.Label)
		}
	}
	if majors < 2 {
		t.Errorf("expected at least 2 major ticks, got %d", majors)
	}
	if len(sc.MajorTicks()) != majors {
		t.Error("MajorTicks disagrees with Ticks")
	}
}

func TestScaleTicks_IncomeLabels(t *testing.T) {
	sc := Scale{Column: model.ColumnIncome, Domain: [2]float64{35000, 80000}, Range: [2]float64{0, 820}}
	for _, tk := range sc.MajorTicks() {
		if !strings.HasPrefix(tk.Label, "$") || strings.HasSuffix(tk.Label, "%") {
			t.Errorf("income tick label %q should be dollars", tk.Label)
		}
	}
}

func TestLayout(t *testing.T) {
	l := DefaultLayout()
	if l.PlotWidth() != 820 || l.PlotHeight() != 420 {
		t.Errorf("plot area = %vx%v, want 820x420", l.PlotWidth(), l.PlotHeight())
	}
	if r := l.RangeFor(model.AxisX); r != [2]float64{0, 820} {
		t.Errorf("x range = %v", r)
	}
	if r := l.RangeFor(model.AxisY); r != [2]float64{420, 0} {
		t.Errorf("y range = %v", r)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("default layout invalid: %v", err)
	}

	bad := l
	bad.Margin.Left = 1000
	if err := bad.Validate(); err == nil {
		t.Error("expected error when margins exceed canvas")
	}
	bad = l
	bad.Margin.Top = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative margin")
	}
}
