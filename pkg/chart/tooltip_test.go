package chart

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

func TestTooltipHTML(t *testing.T) {
	r := model.Record{ID: "CA", Poverty: 15.3, Healthcare: 12.1, Income: 44000, Age: 38.6, Smokes: 14.2, Obesity: 25}

	tests := []struct {
		name string
		x, y model.Column
		want string
	}{
		{"poverty/healthcare", model.ColumnPoverty, model.ColumnHealthcare, "CA<hr>Poverty: 15.3%<br>Lacks Healthcare: 12.1%"},
		{"income/smokes", model.ColumnIncome, model.ColumnSmokes, "CA<hr>Median Income: $44000<br>Smokers: 14.2%"},
		{"age/obesity", model.ColumnAge, model.ColumnObesity, "CA<hr>Age: 38.6<br>Obesity: 25%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BindTooltip(tt.x, tt.y).HTML(r); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTooltipIncomeHasNoPercent(t *testing.T) {
	r := model.Record{ID: "NY", Income: 60000, Obesity: 25}
	got := BindTooltip(model.ColumnIncome, model.ColumnObesity).HTML(r)
	x := strings.Split(strings.Split(got, "<hr>")[1], "<br>")[0]
	if x != "Median Income: $60000" {
		t.Errorf("income line = %q", x)
	}
}

func TestTooltipUsesNameAndEscapes(t *testing.T) {
	r := model.Record{ID: "XX", Name: "A & B"}
	got := BindTooltip(model.ColumnPoverty, model.ColumnSmokes).HTML(r)
	if !strings.HasPrefix(got, "A &amp; B<hr>") {
		t.Errorf("headline not escaped: %q", got)
	}
}

func TestTooltipText(t *testing.T) {
	r := model.Record{ID: "CA", Poverty: 15.3, Healthcare: 12.1}
	tt := BindTooltip(model.ColumnPoverty, model.ColumnHealthcare)

	lines := tt.Lines(r)
	if len(lines) != 3 || lines[0] != "CA" || lines[1] != "Poverty: 15.3%" || lines[2] != "Lacks Healthcare: 12.1%" {
		t.Errorf("Lines() = %q", lines)
	}
	text := strings.Split(tt.Text(r), "\n")
	if len(text) != 4 || text[1] != strings.Repeat("─", len("Lacks Healthcare: 12.1%")) {
		t.Errorf("Text() = %q", text)
	}
}
