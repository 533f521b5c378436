package ui

import (
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// Terminal chart geometry, in cells.
const (
	rightPad       = 4 // room for a point label at the right edge
	bottomRows     = 5 // axis line, tick labels, three X selectors
	minPlotCols    = 20
	minPlotRows    = 6
	selectorMarker = "▸ "
)

// geometry maps the scene's pixel plot onto a character grid.
type geometry struct {
	width, height int
	plotLeft      int
	plotTop       int
	plotCols      int
	plotRows      int
	pxWidth       float64
	pxHeight      float64
}

func (g geometry) axisRow() int { return g.plotTop + g.plotRows }

func (g geometry) tooSmall() bool {
	return g.plotCols < minPlotCols || g.plotRows < minPlotRows
}

// col converts a plot x coordinate to a column, clamped to the plot.
func (g geometry) col(px float64) int {
	f := 0.0
	if g.pxWidth > 0 {
		f = px / g.pxWidth
	}
	c := g.plotLeft + int(math.Round(f*float64(g.plotCols-1)))
	return clampInt(c, g.plotLeft, g.plotLeft+g.plotCols-1)
}

// row converts a plot y coordinate to a row, clamped to the plot.
func (g geometry) row(py float64) int {
	f := 0.0
	if g.pxHeight > 0 {
		f = py / g.pxHeight
	}
	r := g.plotTop + int(math.Round(f*float64(g.plotRows-1)))
	return clampInt(r, g.plotTop, g.plotTop+g.plotRows-1)
}

// toPlot converts a cell back to plot coordinates at the cell centre.
func (g geometry) toPlot(col, row int) (float64, float64, bool) {
	if col < g.plotLeft || col >= g.plotLeft+g.plotCols || row < g.plotTop || row >= g.axisRow() {
		return 0, 0, false
	}
	x := float64(col-g.plotLeft) / float64(max(g.plotCols-1, 1)) * g.pxWidth
	y := float64(row-g.plotTop) / float64(max(g.plotRows-1, 1)) * g.pxHeight
	return x, y, true
}

// selectorHit is the clickable extent of one selector label.
type selectorHit struct {
	tag        string
	row        int
	col0, col1 int // inclusive
}

// markerHit is the hover target of one marker and its label.
type markerHit struct {
	id         string
	row        int
	col0, col1 int // inclusive
}

// frame is one rendered chart together with its hit targets.
type frame struct {
	geom      geometry
	canvas    *canvas
	selectors []selectorHit
	markers   []markerHit
}

func (f frame) selectorAt(col, row int) (string, bool) {
	for _, s := range f.selectors {
		if s.row == row && col >= s.col0 && col <= s.col1 {
			return s.tag, true
		}
	}
	return "", false
}

// markerAt returns the topmost marker drawn at a cell.
func (f frame) markerAt(col, row int) (string, bool) {
	for i := len(f.markers) - 1; i >= 0; i-- {
		m := f.markers[i]
		if m.row == row && col >= m.col0 && col <= m.col1 {
			return m.id, true
		}
	}
	return "", false
}

func yTickWidth(scene chart.Scene) int {
	w := 0
	for _, t := range scene.YAxis.Ticks {
		if t.Major {
			w = max(w, runewidth.StringWidth(t.Label))
		}
	}
	return w
}

func ySelectorWidth() int {
	w := 0
	for _, c := range model.YColumns() {
		w = max(w, runewidth.StringWidth(selectorMarker+c.Title()))
	}
	return w
}

func newGeometry(scene chart.Scene, width, height int) geometry {
	left := ySelectorWidth() + 1 + yTickWidth(scene) + 2
	g := geometry{
		width:    width,
		height:   height,
		plotLeft: left,
		plotTop:  1,
		plotCols: width - left - rightPad,
		plotRows: height - 1 - bottomRows,
		pxWidth:  scene.Layout.PlotWidth(),
		pxHeight: scene.Layout.PlotHeight(),
	}
	return g
}

// renderFrame rasterises scene onto a width x height grid. hovered names
// the marker to highlight and, when tip is non-nil, the tooltip to draw.
func renderFrame(scene chart.Scene, width, height int, showLabels bool, hovered string, tip []string) frame {
	g := newGeometry(scene, width, height)
	f := frame{geom: g, canvas: newCanvas(width, height)}
	if g.tooSmall() {
		f.canvas.text(0, 0, "terminal too small", paintTick)
		return f
	}
	c := f.canvas

	drawAxes(c, g, scene)
	f.selectors = drawSelectors(c, g, scene)

	hoverIdx := -1
	for i, m := range scene.Markers {
		col, row := g.col(m.X), g.row(m.Y)
		hit := markerHit{id: m.ID, row: row, col0: col, col1: col}
		if showLabels && i < len(scene.Labels) {
			hit.col1 += c.text(col+1, row, scene.Labels[i].Text, paintLabel)
		}
		f.markers = append(f.markers, hit)
		if m.ID == hovered {
			hoverIdx = i
		}
	}
	for _, m := range f.markers {
		c.set(m.col0, m.row, '●', paintMarker)
	}
	if hoverIdx >= 0 {
		m := f.markers[hoverIdx]
		c.set(m.col0, m.row, '●', paintMarkerHover)
		if tip != nil {
			drawTooltip(c, g, m.col0, m.row, tip)
		}
	}
	return f
}

func drawAxes(c *canvas, g geometry, scene chart.Scene) {
	axisCol := g.plotLeft - 1
	axisRow := g.axisRow()
	for r := g.plotTop; r < axisRow; r++ {
		c.set(axisCol, r, '│', paintAxis)
	}
	c.set(axisCol, axisRow, '└', paintAxis)
	for x := g.plotLeft; x < g.plotLeft+g.plotCols; x++ {
		c.set(x, axisRow, '─', paintAxis)
	}

	lastEnd := -1
	for _, t := range scene.XAxis.Ticks {
		if !t.Major {
			continue
		}
		col := g.col(t.Pos)
		c.set(col, axisRow, '┬', paintAxis)
		w := runewidth.StringWidth(t.Label)
		start := col - w/2
		if start <= lastEnd {
			continue
		}
		c.text(start, axisRow+1, t.Label, paintTick)
		lastEnd = start + w
	}

	lastRow := -1
	for _, t := range scene.YAxis.Ticks {
		if !t.Major {
			continue
		}
		row := g.row(t.Pos)
		c.set(axisCol, row, '┤', paintAxis)
		if row == lastRow {
			continue
		}
		c.textRight(axisCol-1, row, t.Label, paintTick)
		lastRow = row
	}
}

// drawSelectors places X titles centred under the plot, one row per slot,
// and Y titles right-aligned in the left gutter around the plot's middle
// row, slot 0 lowest.
func drawSelectors(c *canvas, g geometry, scene chart.Scene) []selectorHit {
	var hits []selectorHit
	gutterEnd := ySelectorWidth() - 1
	mid := g.plotTop + g.plotRows/2
	for _, s := range scene.Selectors {
		text := s.Title
		p := paintSelectorIdle
		if s.Active {
			text = selectorMarker + s.Title
			p = paintSelectorActive
		}
		w := runewidth.StringWidth(text)
		var row, start int
		if s.Axis == model.AxisX {
			row = g.axisRow() + 2 + s.Column.Slot()
			start = c.textCenter(g.plotLeft+g.plotCols/2, row, text, p)
		} else {
			row = mid + 1 - s.Column.Slot()
			start = c.textRight(gutterEnd, row, text, p)
		}
		hits = append(hits, selectorHit{tag: s.Tag, row: row, col0: start, col1: start + w - 1})
	}
	return hits
}

// drawTooltip boxes lines above and left of the marker at (col, row),
// kept inside the grid.
func drawTooltip(c *canvas, g geometry, col, row int, lines []string) {
	inner := 0
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}
	boxW := inner + 4
	boxH := len(lines) + 3

	dy := int(math.Round(tooltipOffsetY / g.pxHeight * float64(g.plotRows)))
	dx := int(math.Round(tooltipOffsetX / g.pxWidth * float64(g.plotCols)))
	x := clampInt(col+dx-boxW/2, 0, max(g.width-boxW, 0))
	y := clampInt(row-dy-boxH, 0, max(g.height-boxH, 0))
	if y+boxH > row && y <= row {
		// Would cover the marker; drop below it instead.
		y = clampInt(row+1, 0, max(g.height-boxH, 0))
	}

	hr := func(r int, left, right rune) {
		c.set(x, r, left, paintTooltipBorder)
		for i := 1; i < boxW-1; i++ {
			c.set(x+i, r, '─', paintTooltipBorder)
		}
		c.set(x+boxW-1, r, right, paintTooltipBorder)
	}
	body := func(r int, s string) {
		c.set(x, r, '│', paintTooltipBorder)
		for i := 1; i < boxW-1; i++ {
			c.set(x+i, r, ' ', paintTooltip)
		}
		c.text(x+2, r, s, paintTooltip)
		c.set(x+boxW-1, r, '│', paintTooltipBorder)
	}

	r := y
	hr(r, '╭', '╮')
	r++
	body(r, lines[0])
	r++
	hr(r, '├', '┤')
	for _, l := range lines[1:] {
		r++
		body(r, l)
	}
	r++
	hr(r, '╰', '╯')
}

// Tooltip offset from the marker, in plot pixels.
const (
	tooltipOffsetY = 60
	tooltipOffsetX = -60
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
