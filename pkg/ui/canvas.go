package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// paint identifies the style a canvas cell is drawn with.
type paint uint8

const (
	paintNone paint = iota
	paintAxis
	paintTick
	paintMarker
	paintMarkerHover
	paintLabel
	paintSelectorActive
	paintSelectorIdle
	paintTooltip
	paintTooltipBorder
)

type cell struct {
	r     rune
	paint paint
}

// canvas is a fixed-size character grid. Wide runes occupy their first
// cell; the following cell is left as a zero rune and skipped on output.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if !c.in(x, y) {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, paint: p}
}

func (c *canvas) at(x, y int) cell {
	if !c.in(x, y) {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

// text writes s starting at (x, y), clipping at the right edge. It returns
// the number of cells written.
func (c *canvas) text(x, y int, s string, p paint) int {
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > c.w {
			break
		}
		c.set(col, y, r, p)
		for k := 1; k < rw; k++ {
			c.set(col+k, y, 0, p)
		}
		col += rw
	}
	return col - x
}

// textRight writes s so that it ends at column x and returns the start
// column.
func (c *canvas) textRight(x, y int, s string, p paint) int {
	start := x - runewidth.StringWidth(s) + 1
	c.text(start, y, s, p)
	return start
}

// textCenter writes s centred on column x and returns the start column.
func (c *canvas) textCenter(x, y int, s string, p paint) int {
	start := x - runewidth.StringWidth(s)/2
	c.text(start, y, s, p)
	return start
}

// render emits the grid row by row, grouping runs of equal paint into one
// styled segment.
func (c *canvas) render(styles map[paint]lipgloss.Style) string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		cur := paintNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[cur]; ok && cur != paintNone {
				sb.WriteString(st.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				continue
			}
			if cl.paint != cur {
				flush()
				cur = cl.paint
			}
			run.WriteRune(cl.r)
		}
		flush()
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String renders the grid without styling.
func (c *canvas) String() string {
	return c.render(nil)
}
