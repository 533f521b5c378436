package chart

import (
	"time"

	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// DefaultTransitionDuration is how long a repositioning animation runs.
const DefaultTransitionDuration = time.Second

// EaseCubicInOut accelerates through the first half and decelerates
// through the second.
func EaseCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Tween returns the frame at progress t in [0, 1] between from and to.
// Markers and labels are matched by record id; ones without a counterpart
// in from appear at their final position. Axis domains interpolate and
// their ticks are recomputed. Selectors take their final state at once.
func Tween(from, to Scene, t float64) Scene {
	if t >= 1 {
		return to
	}
	if t < 0 {
		t = 0
	}
	e := EaseCubicInOut(t)

	out := to
	out.XAxis = tweenAxis(from.XAxis, to.XAxis, e)
	out.YAxis = tweenAxis(from.YAxis, to.YAxis, e)

	prevMarkers := make(map[string]Marker, len(from.Markers))
	for _, m := range from.Markers {
		prevMarkers[m.ID] = m
	}
	out.Markers = make([]Marker, len(to.Markers))
	for i, m := range to.Markers {
		if p, ok := prevMarkers[m.ID]; ok {
			m.X = lerp(p.X, m.X, e)
			m.Y = lerp(p.Y, m.Y, e)
			m.R = lerp(p.R, m.R, e)
		}
		out.Markers[i] = m
	}

	prevLabels := make(map[string]PointLabel, len(from.Labels))
	for _, l := range from.Labels {
		prevLabels[l.ID] = l
	}
	out.Labels = make([]PointLabel, len(to.Labels))
	for i, l := range to.Labels {
		if p, ok := prevLabels[l.ID]; ok {
			l.X = lerp(p.X, l.X, e)
			l.Y = lerp(p.Y, l.Y, e)
		}
		out.Labels[i] = l
	}
	return out
}

func tweenAxis(from, to AxisGuide, e float64) AxisGuide {
	if from.Scale == to.Scale {
		return to
	}
	sc := to.Scale
	sc.Domain = [2]float64{
		lerp(from.Scale.Domain[0], to.Scale.Domain[0], e),
		lerp(from.Scale.Domain[1], to.Scale.Domain[1], e),
	}
	sc.Range = [2]float64{
		lerp(from.Scale.Range[0], to.Scale.Range[0], e),
		lerp(from.Scale.Range[1], to.Scale.Range[1], e),
	}
	return AxisGuide{Axis: to.Axis, Scale: sc, Ticks: sc.Ticks()}
}

// Transition is the animated change produced by a click or reload.
type Transition struct {
	// Axis whose column changed. Meaningless when Changed is false.
	Axis     model.Axis
	Changed  bool
	Reload   bool
	From     Scene
	To       Scene
	Duration time.Duration
}

// Progress converts elapsed time to tween progress in [0, 1].
func (tr Transition) Progress(elapsed time.Duration) float64 {
	if tr.Duration <= 0 || elapsed >= tr.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(tr.Duration)
}

// At returns the frame displayed after elapsed time.
func (tr Transition) At(elapsed time.Duration) Scene {
	if !tr.Changed {
		return tr.To
	}
	return Tween(tr.From, tr.To, tr.Progress(elapsed))
}

// Done reports whether the animation has finished.
func (tr Transition) Done(elapsed time.Duration) bool {
	return !tr.Changed || tr.Progress(elapsed) >= 1
}

// Retarget returns a transition that starts from the frame currently on
// screen, used when a new change arrives mid-animation.
func (tr Transition) Retarget(current Scene) Transition {
	tr.From = current
	return tr
}
