// Package chart holds the scatter plot model: linear scales, the scene
// description every renderer draws, tweening between scenes, and the
// Session that applies axis selector clicks.
package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// Options configures a Session.
type Options struct {
	Layout             Layout
	Style              Style
	DefaultX           model.Column
	DefaultY           model.Column
	TransitionDuration time.Duration
}

// DefaultOptions starts on poverty against healthcare.
func DefaultOptions() Options {
	return Options{
		Layout:             DefaultLayout(),
		Style:              DefaultStyle(),
		DefaultX:           model.ColumnPoverty,
		DefaultY:           model.ColumnHealthcare,
		TransitionDuration: DefaultTransitionDuration,
	}
}

// Validate checks the layout and that each default sits on its axis.
func (o Options) Validate() error {
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if !o.DefaultX.Valid() || o.DefaultX.Axis() != model.AxisX {
		return fmt.Errorf("default x column %q is not an x axis column", o.DefaultX)
	}
	if !o.DefaultY.Valid() || o.DefaultY.Axis() != model.AxisY {
		return fmt.Errorf("default y column %q is not a y axis column", o.DefaultY)
	}
	if o.TransitionDuration < 0 {
		return fmt.Errorf("transition duration cannot be negative: %v", o.TransitionDuration)
	}
	return nil
}

// Session is the chart state: dataset, active columns, their scales, the
// bound tooltip and the current scene. It is not safe for concurrent use.
type Session struct {
	opts    Options
	records []model.Record
	index   map[string]int

	active  [2]model.Column // by model.Axis
	scales  [2]Scale
	tooltip Tooltip
	scene   Scene

	scaleBuilds int
}

// NewSession builds both scales, the first scene and the tooltip. The
// first render is not animated.
func NewSession(records []model.Record, opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	s := &Session{opts: opts}
	s.active[model.AxisX] = opts.DefaultX
	s.active[model.AxisY] = opts.DefaultY
	if err := s.setRecords(records); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) setRecords(records []model.Record) error {
	s.records = append([]model.Record(nil), records...)
	s.index = make(map[string]int, len(records))
	for i, r := range s.records {
		s.index[r.ID] = i
	}
	for _, axis := range []model.Axis{model.AxisX, model.AxisY} {
		if err := s.rebuildScale(axis); err != nil {
			return err
		}
	}
	s.tooltip = BindTooltip(s.active[model.AxisX], s.active[model.AxisY])
	s.scene = BuildScene(s.opts.Layout, s.opts.Style, s.records, s.scales[model.AxisX], s.scales[model.AxisY])
	return nil
}

func (s *Session) rebuildScale(axis model.Axis) error {
	sc, err := BuildScale(s.records, s.active[axis], s.opts.Layout.RangeFor(axis))
	if err != nil {
		return err
	}
	s.scales[axis] = sc
	s.scaleBuilds++
	return nil
}

// classify maps a selector tag to its column. Demographic tags go to X;
// everything else must be a Y column.
func classify(tag string) (model.Column, error) {
	norm := strings.ToLower(strings.TrimSpace(tag))
	for _, c := range model.XColumns() {
		if c.Tag() == norm {
			return c, nil
		}
	}
	return model.ParseAxisColumn(model.AxisY, tag)
}

// Click handles a click on the selector label with the given tag. Clicking
// the already active column is a no-op that rebuilds nothing.
func (s *Session) Click(tag string) (Transition, error) {
	col, err := classify(tag)
	if err != nil {
		return Transition{}, err
	}
	return s.Select(col)
}

// Select makes col the active column of its axis.
func (s *Session) Select(col model.Column) (Transition, error) {
	if !col.Valid() {
		return Transition{}, fmt.Errorf("%w: %d", model.ErrUnknownColumn, int(col))
	}
	axis := col.Axis()
	if s.active[axis] == col {
		return Transition{Axis: axis, From: s.scene, To: s.scene}, nil
	}
	defer debug.LogEnterExit("chart.Select " + col.Tag())()

	from := s.scene
	prev := s.active[axis]
	s.active[axis] = col
	if err := s.rebuildScale(axis); err != nil {
		s.active[axis] = prev
		return Transition{}, err
	}
	s.tooltip = BindTooltip(s.active[model.AxisX], s.active[model.AxisY])
	s.scene = BuildScene(s.opts.Layout, s.opts.Style, s.records, s.scales[model.AxisX], s.scales[model.AxisY])

	return Transition{
		Axis:     axis,
		Changed:  true,
		From:     from,
		To:       s.scene,
		Duration: s.opts.TransitionDuration,
	}, nil
}

// Reload swaps in a new dataset, keeping the active columns, and returns
// the transition from the old scene.
func (s *Session) Reload(records []model.Record) (Transition, error) {
	if len(records) == 0 {
		return Transition{}, ErrNoRecords
	}
	prev := *s
	from := s.scene
	if err := s.setRecords(records); err != nil {
		*s = prev
		return Transition{}, err
	}
	return Transition{
		Changed:  true,
		Reload:   true,
		From:     from,
		To:       s.scene,
		Duration: s.opts.TransitionDuration,
	}, nil
}

// HitTest returns the record whose marker contains the plot coordinate.
func (s *Session) HitTest(x, y float64) (model.Record, bool) {
	i, ok := s.scene.MarkerAt(x, y)
	if !ok {
		return model.Record{}, false
	}
	return s.Record(s.scene.Markers[i].ID)
}

// Record looks up a record by id.
func (s *Session) Record(id string) (model.Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Record{}, false
	}
	return s.records[i], true
}

// TooltipHTML renders the bound tooltip for a record id.
func (s *Session) TooltipHTML(id string) (string, error) {
	r, ok := s.Record(id)
	if !ok {
		return "", errors.New("no record with id " + id)
	}
	return s.tooltip.HTML(r), nil
}

// Records returns the dataset in load order.
func (s *Session) Records() []model.Record { return s.records }

// Active returns the active column of an axis.
func (s *Session) Active(axis model.Axis) model.Column { return s.active[axis] }

// ActiveX returns the active X column.
func (s *Session) ActiveX() model.Column { return s.active[model.AxisX] }

// ActiveY returns the active Y column.
func (s *Session) ActiveY() model.Column { return s.active[model.AxisY] }

// Scale returns the current scale of an axis.
func (s *Session) Scale(axis model.Axis) Scale { return s.scales[axis] }

// Tooltip returns the bound tooltip.
func (s *Session) Tooltip() Tooltip { return s.tooltip }

// Scene returns the current settled scene.
func (s *Session) Scene() Scene { return s.scene }

// Options returns the options the session was built with.
func (s *Session) Options() Options { return s.opts }

// ScaleBuilds counts scale computations since the session was created.
func (s *Session) ScaleBuilds() int { return s.scaleBuilds }
