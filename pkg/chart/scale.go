package chart

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"

	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// ErrNoRecords is returned when a scale is requested for an empty dataset.
var ErrNoRecords = errors.New("no records to scale")

// Domain padding applied to the observed extent of a column.
const (
	DomainLowFactor  = 0.9
	DomainHighFactor = 1.1
)

// Scale maps values of one column linearly onto a pixel range.
type Scale struct {
	Column model.Column `json:"column"`
	Domain [2]float64   `json:"domain"`
	Range  [2]float64   `json:"range"`
}

// BuildScale computes the domain [0.9*min, 1.1*max] of col over records
// and pairs it with rng.
func BuildScale(records []model.Record, col model.Column, rng [2]float64) (Scale, error) {
	if len(records) == 0 {
		return Scale{}, ErrNoRecords
	}
	defer metrics.Timer(metrics.ScaleBuild)()

	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Value(col)
	}
	return Scale{
		Column: col,
		Domain: [2]float64{floats.Min(values) * DomainLowFactor, floats.Max(values) * DomainHighFactor},
		Range:  rng,
	}, nil
}

// Degenerate reports whether the domain has zero width.
func (s Scale) Degenerate() bool {
	return s.Domain[0] == s.Domain[1]
}

// Apply maps v to pixels. Values outside the domain extrapolate; a
// degenerate domain maps everything to the middle of the range.
func (s Scale) Apply(v float64) float64 {
	if s.Degenerate() {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v - s.Domain[0]) / (s.Domain[1] - s.Domain[0])
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Invert maps a pixel position back to a value.
func (s Scale) Invert(px float64) float64 {
	if s.Range[0] == s.Range[1] {
		return s.Domain[0]
	}
	t := (px - s.Range[0]) / (s.Range[1] - s.Range[0])
	return s.Domain[0] + t*(s.Domain[1]-s.Domain[0])
}

// Tick is one axis tick mark.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label,omitempty"` // empty for minor ticks
	Major bool    `json:"major"`
}

// Ticks returns the tick marks for the domain, in ascending value order.
func (s Scale) Ticks() []Tick {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return []Tick{{Value: lo, Pos: s.Apply(lo), Label: s.Column.FormatValue(lo), Major: true}}
	}

	raw := plot.DefaultTicks{}.Ticks(lo, hi)
	ticks := make([]Tick, 0, len(raw))
	for _, t := range raw {
		if t.Value < lo || t.Value > hi {
			continue
		}
		tick := Tick{Value: t.Value, Pos: s.Apply(t.Value), Major: !t.IsMinor()}
		if tick.Major {
			tick.Label = s.Column.Decorate(t.Label)
		}
		ticks = append(ticks, tick)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Value < ticks[j].Value })
	return ticks
}

// MajorTicks returns only the labelled ticks.
func (s Scale) MajorTicks() []Tick {
	var out []Tick
	for _, t := range s.Ticks() {
		if t.Major {
			out = append(out, t)
		}
	}
	return out
}
