package export

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// InteractiveOptions configures the HTML page.
type InteractiveOptions struct {
	Path       string // Output path; ".html" is enforced
	Title      string
	Records    []model.Record
	Layout     chart.Layout
	Style      chart.Style
	Transition time.Duration
	InitialX   model.Column
	InitialY   model.Column
}

// pageScene is one precomputed (x, y) combination.
type pageScene struct {
	X        string            `json:"x"`
	Y        string            `json:"y"`
	Markers  []chart.Marker    `json:"markers"`
	XDomain  [2]float64        `json:"x_domain"`
	YDomain  [2]float64        `json:"y_domain"`
	XTicks   []chart.Tick      `json:"x_ticks"`
	YTicks   []chart.Tick      `json:"y_ticks"`
	Tooltips map[string]string `json:"tooltips"`
}

type pageSelector struct {
	Tag     string  `json:"tag"`
	Title   string  `json:"title"`
	Axis    string  `json:"axis"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Rotated bool    `json:"rotated"`
}

// pageData is embedded in the page as JSON.
type pageData struct {
	Layout     chart.Layout         `json:"layout"`
	Style      chart.Style          `json:"style"`
	DurationMS int64                `json:"duration_ms"`
	InitialX   string               `json:"initial_x"`
	InitialY   string               `json:"initial_y"`
	Selectors  []pageSelector       `json:"selectors"`
	Scenes     map[string]pageScene `json:"scenes"`
}

func sceneKey(x, y model.Column) string {
	return x.Tag() + "|" + y.Tag()
}

func (o InteractiveOptions) withDefaults() InteractiveOptions {
	if o.Layout == (chart.Layout{}) {
		o.Layout = chart.DefaultLayout()
	}
	if o.Style == (chart.Style{}) {
		o.Style = chart.DefaultStyle()
	}
	if o.Transition <= 0 {
		o.Transition = chart.DefaultTransitionDuration
	}
	if !o.InitialX.Valid() || o.InitialX.Axis() != model.AxisX {
		o.InitialX = model.ColumnPoverty
	}
	if !o.InitialY.Valid() || o.InitialY.Axis() != model.AxisY {
		o.InitialY = model.ColumnHealthcare
	}
	if o.Title == "" {
		o.Title = "Health risks by state"
	}
	return o
}

// buildPageData computes every axis combination up front so the page
// needs no scaling logic of its own.
func buildPageData(opts InteractiveOptions) (pageData, error) {
	if len(opts.Records) == 0 {
		return pageData{}, chart.ErrNoRecords
	}
	l := opts.Layout
	data := pageData{
		Layout:     l,
		Style:      opts.Style,
		DurationMS: opts.Transition.Milliseconds(),
		InitialX:   opts.InitialX.Tag(),
		InitialY:   opts.InitialY.Tag(),
		Scenes:     make(map[string]pageScene, 9),
	}
	for _, s := range chart.RenderAxisSelector(l, opts.InitialX, opts.InitialY) {
		data.Selectors = append(data.Selectors, pageSelector{
			Tag: s.Tag, Title: s.Title, Axis: s.Axis.String(),
			X: s.X, Y: s.Y, Rotated: s.Rotated,
		})
	}

	xs := make(map[model.Column]chart.Scale)
	for _, c := range model.XColumns() {
		sc, err := chart.BuildScale(opts.Records, c, l.RangeFor(model.AxisX))
		if err != nil {
			return pageData{}, err
		}
		xs[c] = sc
	}
	for _, yc := range model.YColumns() {
		sy, err := chart.BuildScale(opts.Records, yc, l.RangeFor(model.AxisY))
		if err != nil {
			return pageData{}, err
		}
		for _, xc := range model.XColumns() {
			sx := xs[xc]
			tip := chart.BindTooltip(xc, yc)
			ps := pageScene{
				X:        xc.Tag(),
				Y:        yc.Tag(),
				Markers:  chart.RenderPoints(opts.Records, sx, sy, opts.Style),
				XDomain:  sx.Domain,
				YDomain:  sy.Domain,
				XTicks:   sx.MajorTicks(),
				YTicks:   sy.MajorTicks(),
				Tooltips: make(map[string]string, len(opts.Records)),
			}
			for _, r := range opts.Records {
				ps.Tooltips[r.ID] = tip.HTML(r)
			}
			data.Scenes[sceneKey(xc, yc)] = ps
		}
	}
	return data, nil
}

// WriteInteractiveHTML writes the self-contained page to w.
func WriteInteractiveHTML(w io.Writer, opts InteractiveOptions) error {
	opts = opts.withDefaults()
	data, err := buildPageData(opts)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal chart data: %w", err)
	}

	bw := bufio.NewWriter(w)
	title := html.EscapeString(opts.Title)
	fmt.Fprintf(bw, pageHead, title, opts.Transition.Milliseconds(), title)
	fmt.Fprintf(bw, `<script type="application/json" id="chart-data">%s</script>`+"\n", payload)
	bw.WriteString(pageScript)
	bw.WriteString("</body>\n</html>\n")
	return bw.Flush()
}

// GenerateInteractiveHTML writes the page to opts.Path and returns the
// path actually written.
func GenerateInteractiveHTML(opts InteractiveOptions) (string, error) {
	defer metrics.Timer(metrics.Export)()

	if opts.Path == "" {
		return "", errors.New("output path is required")
	}
	if len(opts.Records) == 0 {
		return "", chart.ErrNoRecords
	}
	out := opts.Path
	if !strings.HasSuffix(strings.ToLower(out), ".html") {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".html"
	}
	if dir := filepath.Dir(out); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create dir: %w", err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := WriteInteractiveHTML(f, opts); err != nil {
		f.Close()
		return "", err
	}
	return out, f.Close()
}

// pageHead takes the title, the transition duration in ms and the title
// again for the heading.
const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 24px; }
svg text { user-select: none; }
.marker { transition: transform %dms ease-in-out; }
.selector { cursor: pointer; font-size: 14px; text-anchor: middle; }
.selector.inactive { fill: #aaa; }
.selector.active { fill: #000; font-weight: bold; }
.selector.inactive:hover { fill: #000; }
.tick text { font-size: 10px; fill: #444; }
.tooltip { position: absolute; pointer-events: none; display: none;
  background: #222; color: #fff; padding: 6px 10px; border-radius: 4px;
  font-size: 12px; line-height: 1.4; }
.tooltip hr { border: 0; border-top: 1px solid #888; margin: 4px 0; }
</style>
</head>
<body>
<h1>%s</h1>
<div id="chart"></div>
<div class="tooltip" id="tooltip"></div>
`

const pageScript = `<script>
(function () {
  var data = JSON.parse(document.getElementById("chart-data").textContent);
  var NS = "http://www.w3.org/2000/svg";
  var L = data.layout, M = L.margin;
  var W = L.width - M.left - M.right, H = L.height - M.top - M.bottom;
  var active = { x: data.initial_x, y: data.initial_y };
  var tip = document.getElementById("tooltip");
  var tipOffset = [120, -60];

  function el(name, attrs, parent) {
    var e = document.createElementNS(NS, name);
    for (var k in attrs) e.setAttribute(k, attrs[k]);
    if (parent) parent.appendChild(e);
    return e;
  }

  var svg = el("svg", { width: L.width, height: L.height }, document.getElementById("chart"));
  var plot = el("g", { transform: "translate(" + M.left + "," + M.top + ")" }, svg);
  var xAxis = el("g", { "class": "x-axis", transform: "translate(0," + H + ")" }, plot);
  var yAxis = el("g", { "class": "y-axis" }, plot);
  el("line", { x1: 0, y1: 0, x2: W, y2: 0, stroke: "#000" }, xAxis);
  el("line", { x1: 0, y1: 0, x2: 0, y2: H, stroke: "#000" }, yAxis);
  var tickGroups = { x: el("g", {}, xAxis), y: el("g", {}, yAxis) };
  var markers = el("g", {}, plot);

  function current() { return data.scenes[active.x + "|" + active.y]; }

  // Axes move with the markers: the domain is interpolated over the
  // transition while old ticks fade out and new ones fade in.
  var shown = {
    x: { domain: current().x_domain.slice(), ticks: current().x_ticks },
    y: { domain: current().y_domain.slice(), ticks: current().y_ticks }
  };
  var axisFrame = { x: 0, y: 0 };

  function ease(t) { return t < 0.5 ? 4 * t * t * t : 1 - Math.pow(-2 * t + 2, 3) / 2; }
  function lerp(a, b, t) { return a + (b - a) * t; }

  function scalePos(axis, domain, v) {
    var r = axis === "x" ? [0, W] : [H, 0];
    if (domain[1] === domain[0]) return (r[0] + r[1]) / 2;
    return r[0] + (v - domain[0]) / (domain[1] - domain[0]) * (r[1] - r[0]);
  }

  function tickNode(axis, t, parent) {
    var g = el("g", { "class": "tick" }, parent);
    if (axis === "x") {
      el("line", { y2: 6, stroke: "#000" }, g);
      el("text", { y: 18, "text-anchor": "middle" }, g).textContent = t.label;
    } else {
      el("line", { x2: -6, stroke: "#000" }, g);
      el("text", { x: -9, dy: "0.32em", "text-anchor": "end" }, g).textContent = t.label;
    }
    return g;
  }

  function placeTick(axis, node, p, opacity) {
    node.setAttribute("transform", axis === "x" ? "translate(" + p + ",0)" : "translate(0," + p + ")");
    node.setAttribute("opacity", opacity);
  }

  function drawAxis(axis) {
    var group = tickGroups[axis];
    group.textContent = "";
    shown[axis].ticks.forEach(function (t) {
      placeTick(axis, tickNode(axis, t, group), t.pos, 1);
    });
  }

  function animateAxis(axis, toDomain, toTicks) {
    cancelAnimationFrame(axisFrame[axis]);
    var group = tickGroups[axis];
    var fromDomain = shown[axis].domain.slice();
    group.textContent = "";
    var olds = shown[axis].ticks.map(function (t) { return { t: t, node: tickNode(axis, t, group) }; });
    var news = toTicks.map(function (t) { return { t: t, node: tickNode(axis, t, group) }; });
    shown[axis].ticks = toTicks;
    var start = null;

    function frame(now) {
      if (start === null) start = now;
      var p = data.duration_ms > 0 ? Math.min(1, (now - start) / data.duration_ms) : 1;
      var e = ease(p);
      var domain = [lerp(fromDomain[0], toDomain[0], e), lerp(fromDomain[1], toDomain[1], e)];
      shown[axis].domain = domain;
      olds.forEach(function (o) { placeTick(axis, o.node, scalePos(axis, domain, o.t.value), 1 - e); });
      news.forEach(function (n) { placeTick(axis, n.node, scalePos(axis, domain, n.t.value), e); });
      if (p < 1) {
        axisFrame[axis] = requestAnimationFrame(frame);
        return;
      }
      olds.forEach(function (o) { group.removeChild(o.node); });
      shown[axis].domain = toDomain.slice();
    }
    axisFrame[axis] = requestAnimationFrame(frame);
  }

  var nodes = {};
  current().markers.forEach(function (m) {
    var g = el("g", { "class": "marker" }, markers);
    g.style.transform = "translate(" + m.x + "px," + m.y + "px)";
    el("circle", { r: m.r, fill: data.style.marker_fill, opacity: data.style.marker_opacity }, g);
    var t = el("text", { "text-anchor": "middle", dy: "0.35em", "font-size": data.style.label_font_size + "px" }, g);
    t.textContent = m.id;
    g.addEventListener("mouseenter", function () {
      tip.innerHTML = current().tooltips[m.id];
      tip.style.display = "block";
      // Anchored above the marker's top centre, then shifted by tipOffset.
      var b = g.getBoundingClientRect();
      var top = b.top + window.scrollY - tip.offsetHeight + tipOffset[0];
      var left = b.left + b.width / 2 + window.scrollX - tip.offsetWidth / 2 + tipOffset[1];
      tip.style.top = top + "px";
      tip.style.left = left + "px";
    });
    g.addEventListener("mouseleave", function () { tip.style.display = "none"; });
    nodes[m.id] = g;
  });

  function moveMarkers() {
    current().markers.forEach(function (m) {
      nodes[m.id].style.transform = "translate(" + m.x + "px," + m.y + "px)";
    });
  }

  var labels = [];
  data.selectors.forEach(function (s) {
    var attrs = { "class": "selector", x: s.x, y: s.y };
    if (s.rotated) {
      attrs = { "class": "selector", x: 0, y: 0, transform: "translate(" + s.x + "," + s.y + ") rotate(-90)" };
    }
    var t = el("text", attrs, plot);
    t.textContent = s.title;
    t.addEventListener("click", function () { select(s.axis, s.tag); });
    labels.push({ sel: s, node: t });
  });

  function restyle() {
    labels.forEach(function (l) {
      var on = active[l.sel.axis] === l.sel.tag;
      l.node.setAttribute("class", "selector " + (on ? "active" : "inactive"));
    });
  }

  function select(axis, tag) {
    if (active[axis] === tag) return;
    active[axis] = tag;
    var s = current();
    animateAxis(axis, s[axis + "_domain"], s[axis + "_ticks"]);
    moveMarkers();
    restyle();
  }

  drawAxis("x");
  drawAxis("y");
  restyle();
})();
</script>
`
