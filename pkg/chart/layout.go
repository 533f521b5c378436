package chart

import (
	"fmt"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

// Layout is the canvas geometry. Scene coordinates are relative to the top
// left corner of the plot area, which sits at (Margin.Left, Margin.Top).
type Layout struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Margin Margin  `yaml:"margin" json:"margin"`
}

// DefaultLayout is the 960x500 canvas with an 820x420 plot area.
func DefaultLayout() Layout {
	return Layout{
		Width:  960,
		Height: 500,
		Margin: Margin{Top: 20, Right: 40, Bottom: 60, Left: 100},
	}
}

// PlotWidth is the usable horizontal extent.
func (l Layout) PlotWidth() float64 {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// PlotHeight is the usable vertical extent.
func (l Layout) PlotHeight() float64 {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}

// RangeFor returns the pixel range of an axis: ascending [0, width] for X,
// descending [height, 0] for Y so larger values sit higher.
func (l Layout) RangeFor(axis model.Axis) [2]float64 {
	if axis == model.AxisY {
		return [2]float64{l.PlotHeight(), 0}
	}
	return [2]float64{0, l.PlotWidth()}
}

// Validate checks that the plot area has a positive size.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", l.Width, l.Height)
	}
	m := l.Margin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("margins cannot be negative: %+v", m)
	}
	if l.PlotWidth() <= 0 || l.PlotHeight() <= 0 {
		return fmt.Errorf("margins leave no room for the plot (%gx%g)", l.PlotWidth(), l.PlotHeight())
	}
	return nil
}
