package chart

import (
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// Style holds the fixed marker and label appearance.
type Style struct {
	MarkerRadius  float64 `yaml:"marker_radius" json:"marker_radius"`
	MarkerFill    string  `yaml:"marker_fill" json:"marker_fill"`
	MarkerOpacity float64 `yaml:"marker_opacity" json:"marker_opacity"`
	LabelFontSize float64 `yaml:"label_font_size" json:"label_font_size"`
}

// DefaultStyle returns pink markers of radius 15 at half opacity with 11px
// labels.
func DefaultStyle() Style {
	return Style{
		MarkerRadius:  15,
		MarkerFill:    "pink",
		MarkerOpacity: 0.5,
		LabelFontSize: 11,
	}
}

// Marker is the circle drawn for one record.
type Marker struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R  float64 `json:"r"`
}

// PointLabel is the short code drawn on top of a marker.
type PointLabel struct {
	ID   string  `json:"id"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SelectorLabel is one clickable axis title.
type SelectorLabel struct {
	Column  model.Column `json:"column"`
	Tag     string       `json:"tag"`
	Title   string       `json:"title"`
	Axis    model.Axis   `json:"axis"`
	Active  bool         `json:"active"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Rotated bool         `json:"rotated"` // drawn at -90 degrees
}

// AxisGuide is a drawn axis: its scale and tick marks.
type AxisGuide struct {
	Axis  model.Axis `json:"axis"`
	Scale Scale      `json:"scale"`
	Ticks []Tick     `json:"ticks"`
}

// Scene is a complete, renderer-independent description of one frame.
// Coordinates are relative to the plot area origin.
type Scene struct {
	Layout    Layout          `json:"layout"`
	Style     Style           `json:"style"`
	XAxis     AxisGuide       `json:"x_axis"`
	YAxis     AxisGuide       `json:"y_axis"`
	Markers   []Marker        `json:"markers"`
	Labels    []PointLabel    `json:"labels"`
	Selectors []SelectorLabel `json:"selectors"`
}

// Selector layout, in pixels.
const (
	xSelectorOffset = 20 // below the bottom axis
	ySelectorOffset = 50 // left of the left axis
	selectorSpacing = 20
)

// RenderAxes produces the bottom (X) and left (Y) axis guides.
func RenderAxes(sx, sy Scale) (AxisGuide, AxisGuide) {
	return AxisGuide{Axis: model.AxisX, Scale: sx, Ticks: sx.Ticks()},
		AxisGuide{Axis: model.AxisY, Scale: sy, Ticks: sy.Ticks()}
}

// RenderPoints places one marker per record at its scaled active values.
func RenderPoints(records []model.Record, sx, sy Scale, style Style) []Marker {
	markers := make([]Marker, len(records))
	for i, r := range records {
		markers[i] = Marker{
			ID: r.ID,
			X:  sx.Apply(r.Value(sx.Column)),
			Y:  sy.Apply(r.Value(sy.Column)),
			R:  style.MarkerRadius,
		}
	}
	return markers
}

// RenderPointLabels places each record's short code at its marker.
func RenderPointLabels(records []model.Record, sx, sy Scale) []PointLabel {
	labels := make([]PointLabel, len(records))
	for i, r := range records {
		labels[i] = PointLabel{
			ID:   r.ID,
			Text: r.ID,
			X:    sx.Apply(r.Value(sx.Column)),
			Y:    sy.Apply(r.Value(sy.Column)),
		}
	}
	return labels
}

// RenderAxisSelector lays out the six selector labels and marks the active
// column of each axis. X labels stack downward below the plot; Y labels
// stack leftward, rotated, centred on the plot height.
func RenderAxisSelector(layout Layout, activeX, activeY model.Column) []SelectorLabel {
	w, h := layout.PlotWidth(), layout.PlotHeight()
	var labels []SelectorLabel
	for _, c := range model.XColumns() {
		labels = append(labels, SelectorLabel{
			Column: c,
			Tag:    c.Tag(),
			Title:  c.Title(),
			Axis:   model.AxisX,
			Active: c == activeX,
			X:      w / 2,
			Y:      h + xSelectorOffset + float64(c.Slot())*selectorSpacing,
		})
	}
	for _, c := range model.YColumns() {
		labels = append(labels, SelectorLabel{
			Column:  c,
			Tag:     c.Tag(),
			Title:   c.Title(),
			Axis:    model.AxisY,
			Active:  c == activeY,
			X:       -(ySelectorOffset + float64(c.Slot())*selectorSpacing),
			Y:       h / 2,
			Rotated: true,
		})
	}
	return labels
}

// BuildScene renders a full frame for the given scales.
func BuildScene(layout Layout, style Style, records []model.Record, sx, sy Scale) Scene {
	defer metrics.Timer(metrics.SceneBuild)()

	xa, ya := RenderAxes(sx, sy)
	return Scene{
		Layout:    layout,
		Style:     style,
		XAxis:     xa,
		YAxis:     ya,
		Markers:   RenderPoints(records, sx, sy, style),
		Labels:    RenderPointLabels(records, sx, sy),
		Selectors: RenderAxisSelector(layout, sx.Column, sy.Column),
	}
}

// MarkerAt returns the index of the topmost marker containing (x, y).
// Later markers are drawn over earlier ones.
func (s Scene) MarkerAt(x, y float64) (int, bool) {
	for i := len(s.Markers) - 1; i >= 0; i-- {
		m := s.Markers[i]
		dx, dy := x-m.X, y-m.Y
		if dx*dx+dy*dy <= m.R*m.R {
			return i, true
		}
	}
	return -1, false
}

// Marker returns the marker for a record id.
func (s Scene) Marker(id string) (Marker, bool) {
	for _, m := range s.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// ActiveColumn returns the active selector column of an axis.
func (s Scene) ActiveColumn(axis model.Axis) (model.Column, bool) {
	for _, l := range s.Selectors {
		if l.Axis == axis && l.Active {
			return l.Column, true
		}
	}
	return 0, false
}

// ActiveCount returns how many selectors of an axis are active.
func (s Scene) ActiveCount(axis model.Axis) int {
	n := 0
	for _, l := range s.Selectors {
		if l.Axis == axis && l.Active {
			n++
		}
	}
	return n
}

// Axis returns the guide for an axis.
func (s Scene) Axis(axis model.Axis) AxisGuide {
	if axis == model.AxisY {
		return s.YAxis
	}
	return s.XAxis
}
