package chart

import (
	"fmt"
	"html"
	"strings"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// Tooltip formats the hover content for the active column pair.
type Tooltip struct {
	X model.Column `json:"x"`
	Y model.Column `json:"y"`
}

// BindTooltip returns the tooltip for the given active columns. Binding
// again replaces the previous tooltip; there is no other state.
func BindTooltip(x, y model.Column) Tooltip {
	return Tooltip{X: x, Y: y}
}

// Line formats one "label value" line, e.g. "Poverty: 15.3%".
func Line(c model.Column, r model.Record) string {
	return fmt.Sprintf("%s %s", c.TooltipLabel(), c.FormatValue(r.Value(c)))
}

// HTML renders the tooltip markup:
//
//	CA<hr>Poverty: 15.3%<br>Lacks Healthcare: 12.1%
func (t Tooltip) HTML(r model.Record) string {
	return html.EscapeString(r.Label()) + "<hr>" +
		html.EscapeString(Line(t.X, r)) + "<br>" +
		html.EscapeString(Line(t.Y, r))
}

// Lines returns the headline, the X line and the Y line.
func (t Tooltip) Lines(r model.Record) []string {
	return []string{r.Label(), Line(t.X, r), Line(t.Y, r)}
}

// Text renders the tooltip as plain text with a rule under the headline.
func (t Tooltip) Text(r model.Record) string {
	lines := t.Lines(r)
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	return lines[0] + "\n" + strings.Repeat("─", width) + "\n" + lines[1] + "\n" + lines[2]
}
